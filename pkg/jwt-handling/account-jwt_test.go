package jwthandling

import (
	"testing"
	"time"
)

func TestAccountTokenRoundtrip(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		tokenStr, err := GenerateNewAccountToken(time.Minute, "acc1", true, time.Now().UnixMilli(), "testkey", "sess1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		claims, valid, err := ValidateAccountToken(tokenStr, "testkey")
		if err != nil || !valid {
			t.Fatalf("token should validate: %v", err)
		}
		if claims.Subject != "acc1" || claims.SessionID != "sess1" || !claims.AccountVerified {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		tokenStr, err := GenerateNewAccountToken(time.Minute, "acc1", false, 0, "testkey", "sess1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, valid, _ := ValidateAccountToken(tokenStr, "otherkey")
		if valid {
			t.Error("token should not validate with wrong key")
		}
	})

	t.Run("expired token", func(t *testing.T) {
		tokenStr, err := GenerateNewAccountToken(-time.Minute, "acc1", false, 0, "testkey", "sess1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, valid, err := ValidateAccountToken(tokenStr, "testkey")
		if valid || err == nil {
			t.Error("expired token should not validate")
		}
	})
}
