package jwtPkg

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

var ErrInvalidSession = errors.New("invalid session token")

// SessionClaims identifies one browser session. The session id doubles as
// the storage scope when scoping is per session.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewSessionToken(secret []byte, sessionID string, ttl time.Duration) (string, time.Time, error) {
	if len(secret) == 0 {
		return "", time.Time{}, fmt.Errorf("session secret not set")
	}
	if sessionID == "" {
		return "", time.Time{}, fmt.Errorf("session id is empty")
	}

	now := time.Now()
	expiresAt := now.Add(ttl)

	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		logrus.WithError(err).Error("Failed to sign session token")
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ParseSessionToken verifies the signature and expiry and returns the session id.
func ParseSessionToken(secret []byte, raw string) (string, error) {
	log := logrus.WithField("func", "ParseSessionToken")

	if raw == "" {
		return "", ErrInvalidSession
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		log.WithError(err).Debug("Session token rejected")
		return "", fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidSession
	}

	return claims.SessionID, nil
}
