package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// certIDAlphabet excludes ambiguous characters (0/O, 1/I/l) so certificate
// ids survive being read aloud or retyped from a printed certificate.
const certIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCertificateID returns a random identifier of the given length drawn
// from an unambiguous alphanumeric alphabet.
func GenerateCertificateID(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid certificate id length: %d", length)
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(certIDAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate certificate id: %w", err)
		}
		out[i] = certIDAlphabet[n.Int64()]
	}
	return string(out), nil
}

// GenerateOTP returns a random numeric one-time code of the given number of
// digits. Leading zeros are allowed.
func GenerateOTP(digits int) (string, error) {
	if digits <= 0 {
		return "", fmt.Errorf("invalid otp length: %d", digits)
	}

	out := make([]byte, digits)
	ten := big.NewInt(10)
	for i := range out {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to generate otp: %w", err)
		}
		out[i] = byte('0' + n.Int64())
	}
	return string(out), nil
}
