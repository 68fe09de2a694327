package pwhash

import "testing"

func TestHashPassword(t *testing.T) {
	t.Run("produces different hashes for the same password", func(t *testing.T) {
		h1, err := HashPassword("longenough1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		h2, err := HashPassword("longenough1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if h1 == h2 {
			t.Error("hashes should differ through random salts")
		}
	})
}

func TestComparePasswordWithHash(t *testing.T) {
	hash, err := HashPassword("longenough1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("with matching password", func(t *testing.T) {
		match, err := ComparePasswordWithHash(hash, "longenough1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !match {
			t.Error("should match")
		}
	})

	t.Run("with wrong password", func(t *testing.T) {
		match, err := ComparePasswordWithHash(hash, "wrongpassword")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if match {
			t.Error("should not match")
		}
	})

	t.Run("with malformed hash", func(t *testing.T) {
		_, err := ComparePasswordWithHash("not-a-hash", "longenough1")
		if err == nil {
			t.Error("should fail")
		}
	})
}
