// Package auth signs and verifies the HS256 session tokens issued after
// sign-in.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by a session token. Exp and Iat are Unix
// seconds; zero means "fill in at signing time".
type Claims struct {
	Sub     string
	Email   string
	Name    string
	Picture string
	Role    string
	Exp     int64
	Iat     int64
}

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// TokenTTL is the lifetime of tokens minted without an explicit expiry.
const TokenTTL = 24 * time.Hour

const devSecret = "dev-secret"

var validMethods = []string{jwt.SigningMethodHS256.Alg()}

type sessionClaims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Signer mints and checks tokens with one shared secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = TokenTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SignerFromEnv reads JWT_SECRET. Outside production a fixed development
// secret is used when it is unset.
func SignerFromEnv() (*Signer, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))) {
		case "production", "prod":
			return nil, fmt.Errorf("%w: JWT_SECRET required in production", ErrMissingSecret)
		}
		secret = devSecret
	}
	return NewSigner(secret, TokenTTL), nil
}

// SignJWT signs claims with the secret from the environment.
func SignJWT(claims Claims) (string, error) {
	s, err := SignerFromEnv()
	if err != nil {
		return "", err
	}
	return s.Sign(claims)
}

// VerifyJWT verifies a token with the secret from the environment.
func VerifyJWT(token string) (Claims, error) {
	s, err := SignerFromEnv()
	if err != nil {
		return Claims{}, err
	}
	return s.Verify(token)
}

// Sign fills Iat and Exp when unset and returns the compact token.
func (s *Signer) Sign(claims Claims) (string, error) {
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}
	now := s.now().UTC()
	if claims.Iat == 0 {
		claims.Iat = now.Unix()
	}
	if claims.Exp == 0 {
		claims.Exp = now.Add(s.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		Role:    claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Sub,
			IssuedAt:  jwt.NewNumericDate(time.Unix(claims.Iat, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(claims.Exp, 0)),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry. Expired tokens return
// ErrExpiredToken, which also matches ErrInvalidToken.
func (s *Signer) Verify(token string) (Claims, error) {
	var sc sessionClaims
	_, err := jwt.ParseWithClaims(token, &sc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods(validMethods), jwt.WithTimeFunc(s.now))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpiredToken
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case sc.Subject == "":
		return Claims{}, ErrInvalidToken
	}

	claims := Claims{
		Sub:     sc.Subject,
		Email:   sc.Email,
		Name:    sc.Name,
		Picture: sc.Picture,
		Role:    sc.Role,
	}
	if sc.ExpiresAt != nil {
		claims.Exp = sc.ExpiresAt.Unix()
	}
	if sc.IssuedAt != nil {
		claims.Iat = sc.IssuedAt.Unix()
	}
	return claims, nil
}
