package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecretKey = "test-secret-key-for-predictable-results"

func TestGenerateToken(t *testing.T) {
	m := NewTokenManager(testSecretKey)

	tests := []struct {
		name      string
		tokenType TokenType
		subject   string
		duration  time.Duration
	}{
		{
			name:      "success: generate valid user token",
			tokenType: TokenTypeUser,
			subject:   "user-1",
			duration:  time.Hour,
		},
		{
			name:      "success: generate valid admin token",
			tokenType: TokenTypeAdmin,
			subject:   "admin-1",
			duration:  30 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenString, err := m.GenerateToken(tt.tokenType, tt.subject, tt.duration)
			require.NoError(t, err)
			require.NotEmpty(t, tokenString)

			claims, err := m.VerifyToken(tokenString)
			require.NoError(t, err)
			assert.Equal(t, tt.tokenType, claims.Type)
			assert.Equal(t, tt.subject, claims.Subject)
			assert.WithinDuration(t, time.Now().Add(tt.duration), claims.ExpiresAt.Time, time.Second*5)
		})
	}
}

func TestVerifyToken(t *testing.T) {
	m := NewTokenManager(testSecretKey)

	validUserToken, _ := m.GenerateToken(TokenTypeUser, "user-1", time.Hour)
	expiredToken, _ := m.GenerateToken(TokenTypeUser, "user-1", -time.Hour)
	otherSecretToken, _ := NewTokenManager("different-secret-key").GenerateToken(TokenTypeAdmin, "admin-1", time.Hour)

	claimsWithWrongMethod := TokenClaims{
		Type: TokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tokenWithWrongMethod := jwt.NewWithClaims(jwt.SigningMethodNone, claimsWithWrongMethod)
	wrongMethodTokenString, _ := tokenWithWrongMethod.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name              string
		manager           *TokenManager
		tokenString       string
		expectError       bool
		expectedErrorType error
		expectedTokenType TokenType
	}{
		{
			name:              "success: verify valid token",
			manager:           m,
			tokenString:       validUserToken,
			expectedTokenType: TokenTypeUser,
		},
		{
			name:              "failure: verify expired token",
			manager:           m,
			tokenString:       expiredToken,
			expectError:       true,
			expectedErrorType: jwt.ErrTokenExpired,
		},
		{
			name:              "failure: verify token signed with another secret",
			manager:           m,
			tokenString:       otherSecretToken,
			expectError:       true,
			expectedErrorType: jwt.ErrTokenSignatureInvalid,
		},
		{
			name:              "failure: verify malformed token",
			manager:           m,
			tokenString:       "not-a-valid-jwt-token",
			expectError:       true,
			expectedErrorType: jwt.ErrTokenMalformed,
		},
		{
			name:              "failure: verify token with wrong signing method",
			manager:           m,
			tokenString:       wrongMethodTokenString,
			expectError:       true,
			expectedErrorType: ErrInvalidSigningMethod,
		},
		{
			name:              "failure: manager without secret",
			manager:           NewTokenManager(""),
			tokenString:       validUserToken,
			expectError:       true,
			expectedErrorType: ErrMissingSecret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.manager.VerifyToken(tt.tokenString)

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErrorType)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, claims)
				assert.Equal(t, tt.expectedTokenType, claims.Type)
			}
		})
	}
}

func TestIsValidToken(t *testing.T) {
	m := NewTokenManager(testSecretKey)

	validAdminToken, _ := m.GenerateToken(TokenTypeAdmin, "admin-1", time.Hour)
	expiredUserToken, _ := m.GenerateToken(TokenTypeUser, "user-1", -time.Hour)

	claims, ok := m.IsValidToken(validAdminToken)
	assert.True(t, ok)
	assert.Equal(t, TokenTypeAdmin, claims.Type)

	claims, ok = m.IsValidToken(expiredUserToken)
	assert.False(t, ok)
	assert.Nil(t, claims)

	_, ok = m.IsValidToken("invalid-token")
	assert.False(t, ok)
}

func TestGenerateToken_MissingSecret(t *testing.T) {
	_, err := NewTokenManager("").GenerateToken(TokenTypeAdmin, "admin-1", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestParseTokenType(t *testing.T) {
	tests := []struct {
		input    string
		expected TokenType
		wantErr  bool
	}{
		{input: "user", expected: TokenTypeUser},
		{input: " Admin ", expected: TokenTypeAdmin},
		{input: "", wantErr: true},
		{input: "root", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTokenType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, TokenTypeUndefined, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
