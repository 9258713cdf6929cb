package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric signs and verifies HS512 tokens with a shared secret.
type Symmetric struct {
	cfg    Config
	parser *libJWT.Parser
}

func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < minKeyLen {
		return nil, ErrSigningKeyTooShort
	}
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithLeeway(5 * time.Second),
		libJWT.WithTimeFunc(cfg.Clock.Now),
	}
	if cfg.Issuer != "" {
		opts = append(opts, libJWT.WithIssuer(cfg.Issuer))
	}
	if len(cfg.Audiences) > 0 {
		opts = append(opts, libJWT.WithAudience(cfg.Audiences...))
	}

	return &Symmetric{cfg: cfg, parser: libJWT.NewParser(opts...)}, nil
}

func (s *Symmetric) Generate(sub Subject) (string, error) {
	now := s.cfg.Clock.Now()

	token := libJWT.NewWithClaims(libJWT.SigningMethodHS512, Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ID:        s.cfg.UUID.Generate(),
			Subject:   strconv.FormatInt(sub.UserID, 10),
			Issuer:    s.cfg.Issuer,
			Audience:  s.cfg.Audiences,
			IssuedAt:  libJWT.NewNumericDate(now),
			NotBefore: libJWT.NewNumericDate(now),
			ExpiresAt: libJWT.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		UserID:    sub.UserID,
		UserEmail: sub.Email,
		UserName:  sub.Name,
	})

	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// Verify returns ErrTokenExpired for stale tokens and ErrInvalidToken for
// anything else that fails parsing or claim validation.
func (s *Symmetric) Verify(token string) (Claims, error) {
	var claims Claims

	_, err := s.parser.ParseWithClaims(token, &claims, func(*libJWT.Token) (any, error) {
		return s.cfg.Secret, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, libJWT.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	default:
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}
}
