package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	iterations = 100_000
	keyLength  = 32
)

// PBKDF2Hasher implements ports.PasswordHasher with an explicit per-user
// salt, so hash and salt can be stored as separate columns.
type PBKDF2Hasher struct{}

func NewPBKDF2Hasher() *PBKDF2Hasher { return &PBKDF2Hasher{} }

func (h *PBKDF2Hasher) NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (h *PBKDF2Hasher) Hash(salt, password string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha256.New)
	return hex.EncodeToString(key)
}

func (h *PBKDF2Hasher) Compare(salt, password, storedHash string) bool {
	computed := h.Hash(salt, password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
