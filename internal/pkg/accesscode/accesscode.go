package accesscode

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Generate returns a 6-digit numeric access code.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// NewQRToken returns an opaque token embedded in the booking QR code.
func NewQRToken() string {
	return uuid.NewString()
}
