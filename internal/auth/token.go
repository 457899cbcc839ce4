// Package auth issues and verifies the signed, purpose-tagged tokens used
// for logins, email verification, password resets and workspace invites.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A token is only accepted by the flow that issued it.
const (
	PurposeLogin             = "login"
	PurposeEmailVerification = "email-verification"
	PurposeResetPassword     = "reset-password"
	PurposeWorkspaceInvite   = "workspace-invite"
)

// Default TTLs per purpose.
const (
	LoginTTL             = 7 * 24 * time.Hour
	EmailVerificationTTL = 1 * time.Hour
	ResetPasswordTTL     = 15 * time.Minute
	WorkspaceInviteTTL   = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrPurposeMismatch = errors.New("token purpose mismatch")
)

// Claims is the payload carried by every TaskTribe token. WorkspaceID and
// Role are set only for workspace-invite tokens.
type Claims struct {
	UserID      uint64 `json:"userId"`
	Purpose     string `json:"purpose"`
	WorkspaceID uint64 `json:"workspaceId,omitempty"`
	Role        string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens with a shared secret.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Sign returns a signed token for the claims with the given TTL. The expiry
// embedded in the token is also returned so callers can persist a matching
// database row.
func (s *TokenService) Sign(claims Claims, ttl time.Duration) (string, time.Time, error) {
	issued := s.now().UTC()
	exp := issued.Add(ttl)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses the token, checks the signature and expiry, and requires the
// embedded purpose to match.
func (s *TokenService) Verify(token, purpose string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrPurposeMismatch
	}
	return claims, nil
}
