package scheduling

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testSigningKey = "whsec_test"

func signBody(t *testing.T, key string, ts int64, body []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(key))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignatureAccepts(t *testing.T) {
	body := []byte(`{"event":"invitee.created"}`)
	now := time.Now()
	header := signBody(t, testSigningKey, now.Unix(), body)

	if err := VerifySignature(header, body, testSigningKey, 5*time.Minute, now); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"event":"invitee.created"}`)
	now := time.Now()
	header := signBody(t, testSigningKey, now.Unix(), body)

	tampered := []byte(`{"event":"invitee.created","extra":1}`)
	if err := VerifySignature(header, tampered, testSigningKey, 5*time.Minute, now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignatureRejectsWrongKey(t *testing.T) {
	body := []byte(`{}`)
	now := time.Now()
	header := signBody(t, "whsec_other", now.Unix(), body)

	if err := VerifySignature(header, body, testSigningKey, 5*time.Minute, now); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifySignatureRejectsMalformedHeader(t *testing.T) {
	cases := []string{"", "v1=abc", "t=123", "garbage", "t=,v1="}
	for _, header := range cases {
		err := VerifySignature(header, []byte(`{}`), testSigningKey, 0, time.Now())
		if !errors.Is(err, ErrMissingSignature) && !errors.Is(err, ErrMalformedSignature) {
			t.Fatalf("header %q: expected missing/malformed error, got %v", header, err)
		}
	}
}

func TestVerifySignatureRejectsStaleTimestamp(t *testing.T) {
	body := []byte(`{}`)
	now := time.Now()
	header := signBody(t, testSigningKey, now.Add(-10*time.Minute).Unix(), body)

	if err := VerifySignature(header, body, testSigningKey, 5*time.Minute, now); !errors.Is(err, ErrStaleTimestamp) {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}

	// Zero tolerance disables the replay check.
	if err := VerifySignature(header, body, testSigningKey, 0, now); err != nil {
		t.Fatalf("expected stale check disabled with zero tolerance, got %v", err)
	}
}
