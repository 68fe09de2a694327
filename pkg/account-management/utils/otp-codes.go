package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	otpCodeMin = 100000
	otpCodeMax = 999999
)

// GenerateOTPCode generates a random 6 digit code, uniformly sampled from
// 100000-999999 so the code never starts with a zero.
func GenerateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpCodeMax-otpCodeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+otpCodeMin, 10), nil
}
