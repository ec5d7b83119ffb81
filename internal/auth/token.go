package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gatehouse-io/gatehouse/internal/shared"
)

// signingAlg is the only accepted token algorithm.
const signingAlg = "HS256"

// Claims carries the subject identity and role asserted by a token.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// TokenManager issues and verifies bearer tokens. Verification is stateless:
// there is no revocation, a token stays valid until its expiry.
type TokenManager struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// NewTokenManager constructs a TokenManager signing with the given symmetric
// secret. Tokens issued without an explicit TTL expire after defaultTTL.
func NewTokenManager(secret string, defaultTTL time.Duration) *TokenManager {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (m *TokenManager) WithNow(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// DefaultTTL returns the TTL applied when Issue receives a negative ttl.
func (m *TokenManager) DefaultTTL() time.Duration {
	return m.defaultTTL
}

// Issue signs a token carrying subject and role with an absolute expiry of
// now+ttl. A negative ttl selects the default; a zero ttl produces a token
// that is already expired.
func (m *TokenManager) Issue(subject, role string, ttl time.Duration) (string, error) {
	if ttl < 0 {
		ttl = m.defaultTTL
	}
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a token, returning its claims. Any failure, a
// bad signature, malformed payload, elapsed expiry or missing subject, yields
// shared.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{signingAlg}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, shared.ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", shared.ErrInvalidToken)
	}
	if claims.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing expiry", shared.ErrInvalidToken)
	}
	// exp == now counts as expired.
	if !claims.ExpiresAt.Time.After(m.now()) {
		return Claims{}, fmt.Errorf("%w: expired", shared.ErrInvalidToken)
	}
	return claims, nil
}
