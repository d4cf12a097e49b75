package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	password := "my-secure-password"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == password {
		t.Fatal("HashPassword() returned plaintext password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		t.Errorf("HashPassword() produced invalid bcrypt hash: %v", err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	hash1, _ := HashPassword("same-password")
	hash2, _ := HashPassword("same-password")

	if hash1 == hash2 {
		t.Error("HashPassword() produced identical hashes for same password")
	}
}

func TestHashPassword_TooShort(t *testing.T) {
	for _, password := range []string{"", "1234567", "açúcar"} {
		if _, err := HashPassword(password); !errors.Is(err, ErrPasswordTooShort) {
			t.Errorf("HashPassword(%q) error = %v, want ErrPasswordTooShort", password, err)
		}
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, _ := HashPassword("correct-password")

	if err := VerifyPassword(hash, "correct-password"); err != nil {
		t.Errorf("VerifyPassword() failed with correct password: %v", err)
	}
	if err := VerifyPassword(hash, "wrong-password"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("VerifyPassword() error = %v, want ErrWrongPassword", err)
	}
	if err := VerifyPassword(hash, ""); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("VerifyPassword() with empty password error = %v, want ErrWrongPassword", err)
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	err := VerifyPassword("not-a-hash", "whatever")
	if err == nil || errors.Is(err, ErrWrongPassword) {
		t.Errorf("VerifyPassword() error = %v, want a malformed hash error", err)
	}
}
