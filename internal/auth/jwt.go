// Package auth provides JWT token issue/verify, bearer-token middleware
// and password hashing for the EduCast API.
//
// AUTHENTICATION FLOW:
// 1. Client registers or logs in with email/password
// 2. Server issues a signed JWT carrying the user's id, role and email
// 3. Client sends it on every request as "Authorization: Bearer <token>"
// 4. Middleware verifies the signature and expiry, resolves the user and
//    stores the identity in the request context
//
// The token is the only session state — there is no server-side session
// store and no revocation list. Logout records a timestamp on the user
// row; the token itself stays valid until its expiry.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/xid"
)

const issuer = "educast-studio"

// Identity is the verified content of a token.
type Identity struct {
	UserID string
	Role   string
	Email  string
}

// TokenService signs and verifies JWT access tokens. The same HMAC
// secret is used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. The secret should be at least
// 32 bytes of random data in production; anything under 16 is rejected
// outright. ttl is the token lifetime (the product default is 24h).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token TTL must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// claims extends the registered claims with the role and email the
// product embeds in every token.
type claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue creates and signs an access token for the given user.
//
// Claims: sub = user id, role, email, iat, exp = now + ttl, and a fresh
// xid as the token id (jti) so individual tokens are distinguishable in
// logs even for the same user.
func (s *TokenService) Issue(userID, role, email string) (string, error) {
	now := time.Now()

	c := claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    issuer,
			ID:        xid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// issueWithTTL is used by expiry tests.
func (s *TokenService) issueWithTTL(userID, role, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
			ID:        xid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

// Verify parses and verifies a token string, returning the embedded
// identity and expiry.
//
// The jwt library checks signature, expiry and issuer; restricting the
// accepted methods to HS256 prevents algorithm-confusion attacks. All
// failure modes (expired, malformed, bad signature) collapse into one
// error — callers surface a single "invalid or expired token" to the
// client rather than leaking which check failed.
func (s *TokenService) Verify(tokenStr string) (Identity, time.Time, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, time.Time{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return Identity{}, time.Time{}, errors.New("auth: invalid token claims")
	}

	return Identity{
		UserID: c.Subject,
		Role:   c.Role,
		Email:  c.Email,
	}, c.ExpiresAt.Time, nil
}
