package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/polly-storefront/pkg/config"
	"github.com/angelmondragon/polly-storefront/pkg/security"
)

func testHasher() *security.Hasher {
	return security.NewHasher(config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
}

func TestHashAndVerifyPassword(t *testing.T) {
	h := testHasher()

	hash, err := h.Hash("very-secure-password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=32768,t=1,p=1$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := h.Verify("very-secure-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("Verify failed for the correct password")
	}

	ok, err = h.Verify("bogus-password", hash)
	if err != nil {
		t.Fatalf("Verify returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("Verify returned true for incorrect password")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h := testHasher()
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatal("expected distinct salts per hash")
	}
}

func TestHashEmptyPassword(t *testing.T) {
	if _, err := testHasher().Hash(""); !errors.Is(err, security.ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	for _, encoded := range []string{
		"not-a-hash",
		"$argon2id$v=19$m=abc,t=1,p=1$c2FsdA$a2V5",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
	} {
		if _, err := testHasher().Verify("irrelevant", encoded); !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}
