package zoom

import "testing"

func TestVerifySignature_RoundTrip(t *testing.T) {
	secret := "test-secret"
	timestamp := "1700000000"
	body := []byte(`{"event":"recording.completed"}`)

	sig := SignPayload(secret, timestamp, body)
	if !VerifySignature(secret, timestamp, body, sig) {
		t.Fatal("valid signature rejected")
	}
}

func TestVerifySignature_Tampered(t *testing.T) {
	secret := "test-secret"
	timestamp := "1700000000"
	body := []byte(`{"event":"recording.completed"}`)
	sig := SignPayload(secret, timestamp, body)

	if VerifySignature(secret, timestamp, []byte(`{"event":"other"}`), sig) {
		t.Fatal("tampered body accepted")
	}
	if VerifySignature(secret, "1700000001", body, sig) {
		t.Fatal("tampered timestamp accepted")
	}
	if VerifySignature("wrong-secret", timestamp, body, sig) {
		t.Fatal("wrong secret accepted")
	}
}

func TestVerifySignature_FailsClosed(t *testing.T) {
	body := []byte("{}")
	if VerifySignature("", "123", body, SignPayload("", "123", body)) {
		t.Fatal("empty secret must never verify")
	}
	if VerifySignature("secret", "123", body, "") {
		t.Fatal("empty signature must never verify")
	}
}

func TestChallengeDigest(t *testing.T) {
	// Digest must be deterministic and hex-encoded without prefix
	d1 := ChallengeDigest("secret", "plain-token")
	d2 := ChallengeDigest("secret", "plain-token")
	if d1 != d2 {
		t.Fatal("digest not deterministic")
	}
	if len(d1) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(d1))
	}
	if ChallengeDigest("other", "plain-token") == d1 {
		t.Fatal("digest must depend on secret")
	}
}
