package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Information a token encodes
type AccountClaims struct {
	SessionID       string `json:"session_id,omitempty"`
	AccountVerified bool   `json:"accountVerified,omitempty"`
	LastOTPProvided int64  `json:"last_otp_provided,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewAccountToken(
	expiresIn time.Duration,
	accountID string,
	accountVerified bool,
	lastOTPProvided int64,
	secretKey string,
	sessionID string,
) (tokenString string, err error) {
	claims := AccountClaims{
		sessionID,
		accountVerified,
		lastOTPProvided,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   accountID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateAccountToken(tokenString string, secretKey string) (claims *AccountClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccountClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*AccountClaims)
	valid = valid && token.Valid
	return
}
