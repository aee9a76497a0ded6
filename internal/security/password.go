package security

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext secret with bcrypt before it ever reaches a
// store. The plaintext is never persisted.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a stored bcrypt hash against a candidate secret.
// bcrypt's comparison is constant-time over the derived key.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
