package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const notifyIssuer = "course-marketplace/checkout"

type notifyClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// signNotifyToken binds a checkout session to the notifyUrl handed to the
// provider, so only links we issued can confirm a payment.
func signNotifyToken(secret []byte, sessionID string, expiresAt time.Time) (string, error) {
	claims := notifyClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    notifyIssuer,
			Subject:   sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign notify token: %w", err)
	}
	return signed, nil
}

func parseNotifyToken(secret []byte, token string) (string, error) {
	var claims notifyClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(notifyIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if claims.SessionID == "" {
		return "", errors.New("notify token has no session")
	}

	return claims.SessionID, nil
}
