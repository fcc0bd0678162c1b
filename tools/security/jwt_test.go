package security

import (
	"testing"
	"time"
)

var testSecret = []byte("unit-test-secret")

func TestGenerateVerifyRoundtrip(t *testing.T) {
	opts := DefaultOptions(testSecret)

	token, expireAt, err := Generate(opts, "subject-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if !expireAt.After(time.Now()) {
		t.Fatalf("expireAt %v not in the future", expireAt)
	}

	claims, err := Verify(opts, token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got := claims.Subject(); got != "subject-1" {
		t.Fatalf("subject = %q, want subject-1", got)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _, err := Generate(DefaultOptions(testSecret), "subject-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := Verify(DefaultOptions([]byte("other-secret")), token); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
}

func TestVerifyExpired(t *testing.T) {
	opts := DefaultOptions(testSecret)
	// TTL<=0 会被 Generate 归一成默认值，用最小正值构造将过期的令牌
	opts.TTL = time.Millisecond
	token, _, err := Generate(opts, "subject-1")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	time.Sleep(1100 * time.Millisecond) // exp 精度是秒
	if _, err := Verify(DefaultOptions(testSecret), token); err == nil {
		t.Fatal("expired token must not verify")
	}
}

func TestVerifyGarbage(t *testing.T) {
	if _, err := Verify(DefaultOptions(testSecret), "not-a-jwt"); err == nil {
		t.Fatal("garbage must not verify")
	}
}

func TestUnsupportedAlg(t *testing.T) {
	opts := Options{Secret: testSecret, Alg: "RS256"}
	if _, _, err := Generate(opts, "s"); err == nil {
		t.Fatal("RS256 is outside the HMAC family and must be rejected")
	}
}
