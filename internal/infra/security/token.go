package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenExpired indicates the access token's lifetime has elapsed.
var ErrTokenExpired = errors.New("token: expired")

// ErrTokenInvalid indicates the access token failed validation.
var ErrTokenInvalid = errors.New("token: invalid")

// AccessClaims are carried inside every signed access token. RoleSlug and
// Permissions let the transport layer build the actor without a database read.
type AccessClaims struct {
	UserID      string   `json:"uid"`
	Name        string   `json:"name"`
	RoleSlug    string   `json:"role"`
	Permissions []string `json:"perms"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HMAC access tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(secret, issuer string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Issue signs an access token for the supplied identity.
func (m *TokenManager) Issue(userID, name, roleSlug string, permissions []string) (string, error) {
	now := time.Now().UTC()
	claims := AccessClaims{
		UserID:      userID,
		Name:        name,
		RoleSlug:    roleSlug,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Parse validates a signed access token and returns its claims.
func (m *TokenManager) Parse(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
