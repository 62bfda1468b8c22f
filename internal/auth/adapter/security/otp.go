package security

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// OTPGenerator produces numeric one-time passwords and hashes them for storage.
type OTPGenerator struct {
	length int
	cost   int
}

// NewOTPGenerator returns a generator for codes of the given number of digits.
func NewOTPGenerator(length int) *OTPGenerator {
	return &OTPGenerator{length: length, cost: bcrypt.DefaultCost}
}

// Generate returns a random code. The first digit is never zero so the code
// keeps its length when clients parse it as a number.
func (g *OTPGenerator) Generate() (string, error) {
	if g.length <= 0 {
		return "", errors.New("otp length must be positive")
	}
	buf := make([]byte, g.length)
	for i := range buf {
		lo, span := int64(0), int64(10)
		if i == 0 {
			lo, span = 1, 9
		}
		n, err := rand.Int(rand.Reader, big.NewInt(span))
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + lo + n.Int64())
	}
	return string(buf), nil
}

// Hash returns the bcrypt hash of code.
func (g *OTPGenerator) Hash(code string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(code), g.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Matches reports whether code hashes to hash.
func (g *OTPGenerator) Matches(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
