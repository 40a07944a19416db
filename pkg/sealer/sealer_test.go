package sealer

import "testing"

func TestApprovalTokenRoundTrip(t *testing.T) {
	token, err := CreateApprovalToken("user-1", "EFT-20260831-001")
	if err != nil {
		t.Fatalf("CreateApprovalToken returned error: %v", err)
	}

	userID, reference, err := ParseApprovalToken(token)
	if err != nil {
		t.Fatalf("ParseApprovalToken returned error: %v", err)
	}
	if userID != "user-1" || reference != "EFT-20260831-001" {
		t.Errorf("expected (user-1, EFT-20260831-001), got (%s, %s)", userID, reference)
	}
}

func TestApprovalTokenIsOpaque(t *testing.T) {
	token, err := CreateApprovalToken("user-1", "EFT-1")
	if err != nil {
		t.Fatalf("CreateApprovalToken returned error: %v", err)
	}
	if token == "user-1:EFT-1" {
		t.Error("token must not expose its contents")
	}

	// Nonce makes every token unique even for identical inputs.
	second, err := CreateApprovalToken("user-1", "EFT-1")
	if err != nil {
		t.Fatalf("CreateApprovalToken returned error: %v", err)
	}
	if token == second {
		t.Error("expected distinct tokens for identical inputs")
	}
}

func TestParseApprovalTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "QUJD"} {
		if _, _, err := ParseApprovalToken(token); err == nil {
			t.Errorf("expected error for token %q", token)
		}
	}
}

func TestParseApprovalTokenRejectsTampering(t *testing.T) {
	token, err := CreateApprovalToken("user-1", "EFT-1")
	if err != nil {
		t.Fatalf("CreateApprovalToken returned error: %v", err)
	}

	tampered := []byte(token)
	tampered[len(tampered)-1] ^= 1
	if _, _, err := ParseApprovalToken(string(tampered)); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}
