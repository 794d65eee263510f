package token_test

import (
	"testing"
	"time"

	"github.com/Camille-Li-1022/demo-user-register-login/internal/token"
)

const testKey = "codec-test-secret-at-least-32ch!!"

func TestSignVerify_RoundTripsClaims(t *testing.T) {
	codec := token.NewCodec([]byte(testKey), time.Hour)

	signed, err := codec.Sign(42, "a@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Error("expiry is missing or not in the future")
	}
}

func TestSign_ConsecutiveTokensDiffer(t *testing.T) {
	codec := token.NewCodec([]byte(testKey), time.Hour)

	first, err := codec.Sign(42, "a@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	second, err := codec.Sign(42, "a@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if first == second {
		t.Error("two tokens for the same subject are identical")
	}
}

func TestVerify_ExpiredToken_Fails(t *testing.T) {
	codec := token.NewCodec([]byte(testKey), -time.Hour)

	signed, err := codec.Sign(42, "a@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(signed); err == nil {
		t.Error("expired token verified")
	}
}

func TestVerify_WrongKey_Fails(t *testing.T) {
	signer := token.NewCodec([]byte(testKey), time.Hour)
	verifier := token.NewCodec([]byte("another-key-that-is-32-chars-ok!!"), time.Hour)

	signed, err := signer.Sign(42, "a@x.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := verifier.Verify(signed); err == nil {
		t.Error("token signed with a different key verified")
	}
}

func TestVerify_MalformedToken_Fails(t *testing.T) {
	codec := token.NewCodec([]byte(testKey), time.Hour)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := codec.Verify(raw); err == nil {
			t.Errorf("malformed token %q verified", raw)
		}
	}
}
