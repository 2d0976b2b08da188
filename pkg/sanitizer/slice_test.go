package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeIDs(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil slice", nil, []string{}},
		{"empty slice", []string{}, []string{}},
		{"trims entries", []string{" abc ", "def"}, []string{"abc", "def"}},
		{"drops empty entries", []string{"abc", "   ", ""}, []string{"abc"}},
		{"dedupes preserving order", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeIDs(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("NormalizeIDs(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeEquipment(t *testing.T) {
	got := NormalizeEquipment([]string{"Projector", " projector ", "Whiteboard"})
	expected := []string{"projector", "whiteboard"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("NormalizeEquipment() = %v, want %v", got, expected)
	}
}
