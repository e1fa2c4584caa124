package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeReset   = "reset"
)

// Claims is the JWT payload for every token the service issues. TokenType
// discriminates access, refresh, and password-reset tokens so one can never
// stand in for another.
type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the service's JWTs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
	now        func() time.Time
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   5 * time.Minute,
		now:        time.Now,
	}
}

func (m *TokenManager) sign(subject, tokenType string, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(ttl)
	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return token, expires, nil
}

// AccessToken issues a short-lived access token for a promoter.
func (m *TokenManager) AccessToken(promoterID uuid.UUID) (string, error) {
	token, _, err := m.sign(promoterID.String(), tokenTypeAccess, m.accessTTL)
	return token, err
}

// RefreshToken issues a refresh token along with its expiry, which the caller
// persists.
func (m *TokenManager) RefreshToken(promoterID uuid.UUID) (string, time.Time, error) {
	return m.sign(promoterID.String(), tokenTypeRefresh, m.refreshTTL)
}

// ResetToken issues a short-lived password-reset token bound to an email.
func (m *TokenManager) ResetToken(email string) (string, error) {
	token, _, err := m.sign(email, tokenTypeReset, m.resetTTL)
	return token, err
}

// Verify parses the token and checks its type, returning the subject.
func (m *TokenManager) Verify(tokenString, wantType string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.TokenType != wantType {
		return "", fmt.Errorf("token is not a %s token", wantType)
	}
	return claims.Subject, nil
}
