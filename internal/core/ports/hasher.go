package ports

// PasswordHasher is the pluggable one-way function for password storage.
// NewSalt returns a fresh random per-user salt; Hash derives the stored
// value from salt and plaintext. Compare must be constant-time.
type PasswordHasher interface {
	NewSalt() (string, error)
	Hash(salt, password string) string
	Compare(salt, password, storedHash string) bool
}
