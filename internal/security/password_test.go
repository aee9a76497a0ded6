package security_test

import (
	"testing"

	"github.com/geocoder89/taskhub/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("correcthorse")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correcthorse" {
		t.Fatal("hash must not equal the password")
	}

	if err := security.CheckPassword(hash, "correcthorse"); err != nil {
		t.Fatalf("check with right password: %v", err)
	}

	if err := security.CheckPassword(hash, "wronghorse"); err == nil {
		t.Fatal("check with wrong password succeeded")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := security.HashPassword("correcthorse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	h2, err := security.HashPassword("correcthorse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if h1 == h2 {
		t.Fatal("two hashes of the same password should differ")
	}
}
