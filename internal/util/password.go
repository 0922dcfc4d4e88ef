package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/argon2"
)

const (
	saltLength   = 16
	hashLength   = 32
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	hashScheme   = "argon2id"
)

var ErrMalformedHash = errors.New("malformed password hash")

func ValidatePassword(password string) error {
	if len(password) < 12 {
		return errors.New("password must be at least 12 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return errors.New("password must include uppercase, lowercase, number, and special character")
	}

	return nil
}

// HashPassword derives an argon2id hash with a fresh salt and encodes it as
// "argon2id$<salt>$<hash>" (raw URL base64), so it fits in one document field.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password cannot be empty")
	}
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := derive(password, salt)
	enc := base64.RawURLEncoding
	return hashScheme + "$" + enc.EncodeToString(salt) + "$" + enc.EncodeToString(hash), nil
}

func VerifyPassword(password, encoded string) bool {
	if len(password) == 0 {
		return false
	}
	salt, expected, err := decodeHash(encoded)
	if err != nil {
		return false
	}
	candidate := derive(password, salt)
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}

func derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, hashLength)
}

func decodeHash(encoded string) (salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[0] != hashScheme {
		return nil, nil, ErrMalformedHash
	}
	enc := base64.RawURLEncoding
	if salt, err = enc.DecodeString(parts[1]); err != nil || len(salt) == 0 {
		return nil, nil, ErrMalformedHash
	}
	if hash, err = enc.DecodeString(parts[2]); err != nil || len(hash) != hashLength {
		return nil, nil, ErrMalformedHash
	}
	return salt, hash, nil
}
