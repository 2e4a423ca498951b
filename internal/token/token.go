package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultTTL    = 15 * time.Minute
	DefaultHeader = "Authorization"
	DefaultPrefix = "Bearer "
)

// Config carries everything the token service needs. Nothing here is
// global: the secret, the validity window and the header layout all come
// from the caller.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Header string
	Prefix string
}

// Service issues and verifies stateless bearer tokens. The claims are
// self-contained, so Verify needs nothing but the token, the secret and
// the clock.
type Service struct {
	cfg Config
}

func NewService(cfg Config) *Service {
	// Only an unset TTL falls back to the default. A negative window is
	// kept as-is and issues already-expired tokens.
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Header == "" {
		cfg.Header = DefaultHeader
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	return &Service{cfg: cfg}
}

// Issue signs a token carrying the username as subject and an absolute
// expiry of now plus the configured validity window.
func (s *Service) Issue(username string) (string, error) {
	claims := jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(s.cfg.TTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and the expiry and returns the embedded
// subject. Any failure, malformed input included, comes back as an error
// and the caller decides whether to treat the request as anonymous.
func (s *Service) Verify(raw string) (string, error) {
	t, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("cannot parse claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// HeaderName is the request header the token travels in.
func (s *Service) HeaderName() string {
	return s.cfg.Header
}

// HeaderValue renders the token the way it appears on the wire.
func (s *Service) HeaderValue(tok string) string {
	return s.cfg.Prefix + tok
}

// FromHeader strips the configured prefix from a raw header value. The
// second result is false when the header is empty or carries a different
// scheme.
func (s *Service) FromHeader(value string) (string, bool) {
	if value == "" || !strings.HasPrefix(value, s.cfg.Prefix) {
		return "", false
	}
	return strings.TrimPrefix(value, s.cfg.Prefix), true
}
