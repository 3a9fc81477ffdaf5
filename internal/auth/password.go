package auth

import "golang.org/x/crypto/bcrypt"

// Stored password hashes in the users table are bcrypt strings produced at
// this cost, so the cost is part of the data contract with existing rows.
const bcryptCost = 12

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches the stored bcrypt hash.
// Malformed hashes count as a mismatch.
func ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
