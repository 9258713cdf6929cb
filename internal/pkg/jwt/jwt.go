package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSigningKeyTooShort = errors.New("jwt: HS512 key must be at least 64 bytes")
	ErrTokenExpired       = errors.New("jwt: token has expired")
	// ErrInvalidToken wraps every other parse or validation failure.
	ErrInvalidToken = errors.New("jwt: invalid token")
)

// minKeyLen is the HS512 block-equivalent key size.
const minKeyLen = 64

// defaultTTL applies when Config.TTL is zero.
const defaultTTL = 7 * 24 * time.Hour

// JWT issues a session token once a passcode is verified and checks it on
// authenticated requests.
type JWT interface {
	Generate(sub Subject) (string, error)
	Verify(token string) (Claims, error)
}

// Subject is the identity a session token is issued for.
type Subject struct {
	UserID int64
	Email  string
	Name   string
}

type Config struct {
	Secret    []byte
	Issuer    string
	Audiences []string
	TTL       time.Duration
	// Clock drives both issuance and expiry checks.
	Clock interface{ Now() time.Time }
	// UUID supplies the jti claim.
	UUID interface{ Generate() string }
}

// Claims is the token payload. The user ID is encoded as a JSON string so
// browsers do not lose precision on snowflake IDs.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"user_id,string"`
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name,omitempty"`
}

type authKey struct{}

// GetAuth returns the verified claims stored by the auth middleware, or nil.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(authKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, authKey{}, clm)
}
