package auth

import "golang.org/x/crypto/bcrypt"

// MaxPasswordBytes is bcrypt's input limit. Longer passwords are rejected
// by GenerateFromPassword, so callers check it up front.
const MaxPasswordBytes = 72

// HashPassword returns a bcrypt hash of pw at the default cost (10).
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword is a bcrypt verifier.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
