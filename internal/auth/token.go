package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

type TokenType string

const (
	TokenTypeUndefined TokenType = ""
	TokenTypeUser      TokenType = "user"
	TokenTypeAdmin     TokenType = "admin"
)

// ParseTokenType accepts the issuable token types, user and admin.
func ParseTokenType(s string) (TokenType, error) {
	switch t := TokenType(strings.ToLower(strings.TrimSpace(s))); t {
	case TokenTypeUser, TokenTypeAdmin:
		return t, nil
	default:
		return TokenTypeUndefined, errors.Errorf("unknown token type %q", s)
	}
}

type TokenClaims struct {
	Type TokenType `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 tokens. A manager without a secret
// rejects every token.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

func (m *TokenManager) GenerateToken(tokenType TokenType, subject string, dur time.Duration) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrMissingSecret
	}

	claims := TokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(dur)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) VerifyToken(tokenString string) (*TokenClaims, error) {
	if len(m.secret) == 0 {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			alg, _ := token.Header["alg"].(string)
			return nil, errors.Wrap(ErrInvalidSigningMethod, alg)
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (m *TokenManager) IsValidToken(tokenString string) (*TokenClaims, bool) {
	claims, err := m.VerifyToken(tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}
