package hash

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

const saltLen = 64

// GenerateSalt returns a fresh random salt, base64 encoded so it can live in a
// text column next to the hash.
func GenerateSalt() string {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(salt)
}

// HashPassword digests salt||password with SHA-512 and returns the hex string.
// Deterministic: the same password and salt always produce the same hash.
func HashPassword(password, salt string) string {
	d := sha512.New()
	d.Write([]byte(salt))
	d.Write([]byte(password))
	return hex.EncodeToString(d.Sum(nil))
}

// CheckPassword recomputes the hash and compares it against the stored one.
func CheckPassword(password, salt, expectedHash string) bool {
	computed := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(expectedHash)) == 1
}
