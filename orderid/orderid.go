package orderid

import (
	"crypto/rand"
	"math/big"
)

const (
	Letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Length  = 5
)

// New returns an order reference made of three uppercase letters followed by
// a number between 10 and 99, e.g. "QWE42".
func New() (string, error) {
	buf := make([]byte, 0, Length)
	for i := 0; i < 3; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(Letters))))
		if err != nil {
			return "", err
		}
		buf = append(buf, Letters[n.Int64()])
	}

	n, err := rand.Int(rand.Reader, big.NewInt(90))
	if err != nil {
		return "", err
	}
	num := 10 + n.Int64()
	buf = append(buf, byte('0'+num/10), byte('0'+num%10))
	return string(buf), nil
}

// Valid reports whether id has the shape produced by New.
func Valid(id string) bool {
	if len(id) != Length {
		return false
	}
	for i := 0; i < 3; i++ {
		if id[i] < 'A' || id[i] > 'Z' {
			return false
		}
	}
	return id[3] >= '1' && id[3] <= '9' && id[4] >= '0' && id[4] <= '9'
}
