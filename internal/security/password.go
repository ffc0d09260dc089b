package security

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches what the existing user records were hashed with.
const bcryptCost = 10

// Hash is an opaque, salted one-way password hash. The only way to
// produce one from a plaintext is HashPassword, which keeps every code
// path that sets a password going through bcrypt.
type Hash struct {
	value string
}

// HashPassword hashes a plaintext password with bcrypt. A fresh random
// salt is generated on every call.
func HashPassword(plain string) (Hash, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)

	if err != nil {
		return Hash{}, err
	}

	return Hash{value: string(b)}, nil
}

// Compare checks a plaintext candidate against the hash. bcrypt does
// the constant-time comparison internally.
func (h Hash) Compare(plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(h.value), []byte(plain))
}

func (h Hash) String() string {
	return h.value
}

// HashFromStored rehydrates a hash read back from the store. It exists
// for repository round-tripping only.
func HashFromStored(stored string) Hash {
	return Hash{value: stored}
}

// RandomPassword returns a random plaintext used as the unusable
// password of accounts provisioned from a federated identity.
func RandomPassword() (string, error) {
	buf := make([]byte, 24)

	_, err := rand.Read(buf)

	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
