package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Clock supplies the current time. Injected so challenge expiry and
// timestamping are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// CodeSource produces verification codes.
type CodeSource interface {
	Code() (string, error)
}

type randomCodeSource struct{}

// Code draws a uniformly random 6-digit code from crypto/rand.
func (randomCodeSource) Code() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// RandomCodeSource returns the production CodeSource.
func RandomCodeSource() CodeSource { return randomCodeSource{} }
