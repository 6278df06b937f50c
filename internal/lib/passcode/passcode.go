package passcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	min  = 100000
	span = 900000
)

// Generate returns a uniformly random 6-digit code in [100000, 999999].
// The range excludes leading zeros by construction, so the string is
// always exactly six digits.
func Generate() (string, error) {
	const op = "passcode.Generate"

	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Sprintf("%d", min+n.Int64()), nil
}
