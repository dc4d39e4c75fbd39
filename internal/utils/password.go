package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of an admin credential at the given
// cost. Cost is configured once (BCRYPT_COST) so tests can use the minimum.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
