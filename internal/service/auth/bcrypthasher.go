package auth

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes sha256 digest of the password with bcrypt.
// The sha256 step lifts bcrypt's 72 byte input limit.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))

	hashed, err := bcrypt.GenerateFromPassword(sum[:], h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password. Err: %w", err)
	}

	return string(hashed), nil
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
}
