package id

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	digits        = "0123456789"
	referralChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// NewID32 returns a random v4 uuid as 32 lowercase hex characters.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NumericCode returns n random decimal digits; leading zeros are kept.
func NumericCode(n int) (string, error) {
	return fromAlphabet(digits, n)
}

// ReferralCode returns an 8 character code without look-alike characters.
func ReferralCode() (string, error) {
	return fromAlphabet(referralChars, 8)
}

func fromAlphabet(alphabet string, n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[v.Int64()])
	}
	return b.String(), nil
}
