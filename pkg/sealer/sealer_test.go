package sealer

import (
	"strings"
	"testing"
)

func TestPassTokenRoundTrip(t *testing.T) {
	token, err := CreatePassToken("665f1f77bcf86cd799439011", "665f1f77bcf86cd799439022")
	if err != nil {
		t.Fatalf("CreatePassToken failed: %v", err)
	}

	if strings.Contains(token, "665f1f77bcf86cd799439011") {
		t.Error("token must not leak the meeting identifier")
	}

	meetingID, participantID, err := ParsePassToken(token)
	if err != nil {
		t.Fatalf("ParsePassToken failed: %v", err)
	}
	if meetingID != "665f1f77bcf86cd799439011" {
		t.Errorf("expected meeting id to round-trip, got %s", meetingID)
	}
	if participantID != "665f1f77bcf86cd799439022" {
		t.Errorf("expected participant id to round-trip, got %s", participantID)
	}
}

func TestPassTokenUniqueNonce(t *testing.T) {
	a, err := CreatePassToken("m", "p")
	if err != nil {
		t.Fatal(err)
	}
	b, err := CreatePassToken("m", "p")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("sealing the same pair twice must produce different tokens")
	}
}

func TestParsePassToken_Garbage(t *testing.T) {
	if _, _, err := ParsePassToken("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}
}
