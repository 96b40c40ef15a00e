package pkg

import "golang.org/x/crypto/bcrypt"

// PasswordHashCost is the bcrypt cost used by HashPassword. Lowered in tests.
var PasswordHashCost = 14

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return BytesToString(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
