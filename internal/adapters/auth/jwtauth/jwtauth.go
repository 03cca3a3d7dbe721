package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pet-boarding/internal/ports/auth"
)

var (
	ErrSecretEmpty = errors.New("token secret is empty")
)

// Service implementa auth.TokenIssuer y auth.AuthVerifier con HS256.
// El payload del token replica el claim set del colaborador de identidad:
// {id, username, email, role}.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Options struct {
	Secret string

	// TTL del token. Cero = 24h.
	TTL time.Duration
}

func New(opts Options) (*Service, error) {
	secret := strings.TrimSpace(opts.Secret)
	if secret == "" {
		return nil, ErrSecretEmpty
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *Service) Issue(claims auth.Claims) (string, error) {
	if strings.TrimSpace(claims.UserID) == "" {
		return "", errors.New("claims missing user id")
	}

	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       claims.UserID,
		"username": claims.Username,
		"email":    claims.Email,
		"role":     string(claims.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.ttl).Unix(),
	})

	return tok.SignedString(s.secret)
}

func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, auth.ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !parsed.Valid {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	out := auth.Claims{
		UserID:   stringClaim(mc, "id"),
		Username: stringClaim(mc, "username"),
		Email:    stringClaim(mc, "email"),
		Role:     auth.Role(stringClaim(mc, "role")),
	}
	if out.UserID == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	return out, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, ok := mc[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

var (
	_ auth.TokenIssuer  = (*Service)(nil)
	_ auth.AuthVerifier = (*Service)(nil)
)
