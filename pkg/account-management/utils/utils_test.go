package utils

import (
	"strconv"
	"testing"
)

func TestSanitizeEmail(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		email := SanitizeEmail("\nUser@Example.COM")
		if email != "user@example.com" {
			t.Errorf("unexpected email: %s", email)
		}

		email = SanitizeEmail("  \n user@example.com \n\r")
		if email != "user@example.com" {
			t.Errorf("unexpected email: %s", email)
		}

		email = SanitizeEmail("user@example.com")
		if email != "user@example.com" {
			t.Errorf("unexpected email: %s", email)
		}
	})
}

func TestBlurEmailAddress(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		email := BlurEmailAddress("a@test.de")
		if email != "a****@test.de" {
			t.Errorf("unexpected email: %s", email)
		}

		email = BlurEmailAddress("a1234@test.de")
		if email != "a****@test.de" {
			t.Errorf("unexpected email: %s", email)
		}
	})
}

func TestCheckPasswordFormat(t *testing.T) {
	t.Run("with a too short password", func(t *testing.T) {
		if CheckPasswordFormat("short1") {
			t.Error("should be false")
		}
	})
	t.Run("with good passwords", func(t *testing.T) {
		if !CheckPasswordFormat("longenough1") {
			t.Error("should be true")
		}
		if !CheckPasswordFormat("12345678") {
			t.Error("should be true")
		}
	})
}

func TestCheckEmailFormat(t *testing.T) {
	t.Run("with missing @", func(t *testing.T) {
		if CheckEmailFormat("t.t.com") {
			t.Error("should be false")
		}
	})

	t.Run("with wrong domain format", func(t *testing.T) {
		if CheckEmailFormat("t@t.") {
			t.Error("should be false")
		}
	})

	t.Run("with missing top level domain", func(t *testing.T) {
		if CheckEmailFormat("t@com") {
			t.Error("should be false")
		}
	})

	t.Run("with correct format", func(t *testing.T) {
		if !CheckEmailFormat("a@b.com") {
			t.Error("should be true")
		}
		if !CheckEmailFormat("t+1@t.com") {
			t.Error("should be true")
		}
	})
}

func TestGenerateOTPCode(t *testing.T) {
	t.Run("format of generated codes", func(t *testing.T) {
		for i := 0; i < 200; i++ {
			code, err := GenerateOTPCode()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(code) != 6 {
				t.Fatalf("unexpected code length: %s", code)
			}
			n, err := strconv.Atoi(code)
			if err != nil {
				t.Fatalf("code not numeric: %s", code)
			}
			if n < 100000 || n > 999999 {
				t.Fatalf("code out of range: %s", code)
			}
		}
	})
}

func TestGenerateUniqueTokenString(t *testing.T) {
	t.Run("generates unique values", func(t *testing.T) {
		t1, err := GenerateUniqueTokenString()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		t2, err := GenerateUniqueTokenString()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if t1 == t2 {
			t.Error("tokens should differ")
		}
	})
}
