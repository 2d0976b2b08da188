package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"already clean", "Quarterly review", "Quarterly review"},
		{"leading and trailing spaces", "  Dana Levi  ", "Dana Levi"},
		{"internal runs collapse", "Dana   \t Levi", "Dana Levi"},
		{"newlines collapse to space", "line one\nline two", "line one line two"},
		{"unicode preserved", "  Café  meeting ", "Café meeting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Projector", "projector"},
		{"trims and lowercases", "  Video Conference  ", "video conference"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeLabel(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizePurpose_KeepsCasing(t *testing.T) {
	got := NormalizePurpose("  Board  Meeting ")
	if got != "Board Meeting" {
		t.Errorf("NormalizePurpose() = %q, want %q", got, "Board Meeting")
	}
}
