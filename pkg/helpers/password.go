package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"
)

var bcryptCost atomic.Int64

func init() { bcryptCost.Store(int64(bcrypt.DefaultCost)) }

// SetBcryptCost sets the work factor used by HashPassword. Out-of-range
// values fall back to bcrypt.DefaultCost.
func SetBcryptCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	bcryptCost.Store(int64(cost))
}

// prehash digests the password to a fixed 64-byte hex string so bcrypt's
// 72-byte input truncation never applies.
func prehash(plain string) []byte {
	sum := sha256.Sum256([]byte(plain))
	dst := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(dst, sum[:])
	return dst
}

// HashPassword hashes the SHA-256 digest of the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(plain), int(bcryptCost.Load()))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(plain)) == nil
}
