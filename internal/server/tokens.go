package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

var errTokenType = errors.New("wrong token type")

// claims follow the simplejwt payload layout (token_type, jti, exp, iat).
type claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (s *Server) issue(email, kind string, ttl time.Duration) (string, error) {
	now := s.now()
	c := claims{
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// verify checks signature, expiry and token type and returns the subject.
func (s *Server) verify(raw, kind string) (string, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if c.TokenType != kind {
		return "", errTokenType
	}
	return c.Subject, nil
}
