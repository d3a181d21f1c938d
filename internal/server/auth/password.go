package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way salted digest of the secret. The raw secret
// is never stored.
func HashPassword(secret string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether the secret matches the stored digest.
func VerifyPassword(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
