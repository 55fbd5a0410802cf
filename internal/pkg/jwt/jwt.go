package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretSize is the shortest accepted HS512 key, in bytes.
const MinSecretSize = 64

var (
	// ErrInvalidSigningMethod is returned when the token is not HS512.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 key is shorter than MinSecretSize.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrInvalidTTL is returned when the token lifetime is not positive.
	ErrInvalidTTL = errors.New("JWT ttl must be positive")

	// ErrTokenExpired is returned when the token has expired.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when the token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")
)

// JWT generates and verifies tokens.
type JWT interface {
	Generate(uid int64, email string) (string, error)
	Verify(tokenStr string) (Claims, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	// TTL is the token lifetime, usually from duration.ToDuration.
	TTL   time.Duration
	Clock clocker
	UUID  generator
}

// Claims are the registered claims plus the caller identity.
type Claims struct {
	jwt.RegisteredClaims

	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
}

type authKey struct{}

// GetAuth returns the claims stored in ctx by SetAuth, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

// SetAuth stores verified claims in ctx.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
