package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// NewSalt returns a random per-user salt.
func NewSalt() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	return GenerateRandomString(24, charset)
}

// saltedDigest keeps the bcrypt input under its 72 byte limit whatever the
// password length.
func saltedDigest(password, salt string) []byte {
	sum := sha256.Sum256([]byte(salt + ":" + password))
	return []byte(hex.EncodeToString(sum[:]))
}

func HashPassword(password, salt string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(saltedDigest(password, salt), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), saltedDigest(password, salt)) == nil
}

// GenerateRandomString generates a cryptographically secure random string
// using the provided charset and length
func GenerateRandomString(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			panic(fmt.Sprintf("failed to generate random string: %v", err))
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}
