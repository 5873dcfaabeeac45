package verification

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const codeDigits = 6

// GenerateCode returns a random 6-digit numeric code.
func GenerateCode() (string, error) {
	b := make([]byte, codeDigits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	s := make([]byte, codeDigits)
	for i := range s {
		s[i] = '0' + (b[i] % 10)
	}
	return string(s), nil
}

func hashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

func codeEqual(code, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(hashCode(code)), []byte(storedHash)) == 1
}
