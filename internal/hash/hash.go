package hash

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/riddlebox/riddle-api/internal/apperr"
)

// HashPassword runs bcrypt with its default cost. The salt is generated
// inside GenerateFromPassword, so two calls with the same password never
// produce the same hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperr.InvalidInput("password must not be empty")
	}
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

func CheckPassword(hash, password string) (bool, error) {
	if hash == "" || password == "" {
		return false, apperr.InvalidInput("password and hash are required")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, nil
}
