// Package auth issues and verifies the bearer tokens that identify API callers.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/neomorfeo/agencyhub/internal/domain"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature or claim checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for tokens past their expiry plus leeway.
	ErrExpiredToken = errors.New("token expired")
)

// Options configures a Manager.
type Options struct {
	SigningKey []byte
	Issuer     string
	Audience   string
	TTL        time.Duration
	Leeway     time.Duration
}

// Claims are the JWT claims carried by an agencyhub token. The subject is
// the actor ID.
type Claims struct {
	jwt.RegisteredClaims
	Role     domain.Role `json:"role"`
	ClientID string      `json:"client_id,omitempty"`
}

// Manager signs and parses HS256 tokens.
type Manager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	leeway   time.Duration
	now      func() time.Time
}

// NewManager validates opts and returns a Manager.
func NewManager(opts Options) (*Manager, error) {
	if len(opts.SigningKey) == 0 {
		return nil, fmt.Errorf("signing key is required")
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	leeway := opts.Leeway
	if leeway < 0 {
		leeway = 0
	}
	return &Manager{
		secret:   append([]byte(nil), opts.SigningKey...),
		issuer:   strings.TrimSpace(opts.Issuer),
		audience: strings.TrimSpace(opts.Audience),
		ttl:      ttl,
		leeway:   leeway,
		now:      time.Now,
	}, nil
}

// Issue signs a token for actor. Client actors must carry a client ID and
// the system role is never issued.
func (m *Manager) Issue(actor domain.Actor) (string, error) {
	if strings.TrimSpace(actor.ID) == "" {
		return "", fmt.Errorf("token subject is required")
	}
	switch actor.Role {
	case domain.RoleAdmin, domain.RoleStaff:
	case domain.RoleClient:
		if actor.ClientID == "" {
			return "", fmt.Errorf("client tokens need a client id")
		}
	default:
		return "", fmt.Errorf("cannot issue a token for role %q", actor.Role)
	}

	now := m.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role:     actor.Role,
		ClientID: actor.ClientID,
	}
	if m.audience != "" {
		claims.Audience = jwt.ClaimStrings{m.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies tokenString and returns the actor it identifies.
func (m *Manager) Parse(tokenString string) (domain.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(m.leeway),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	_, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Actor{}, ErrExpiredToken
		}
		return domain.Actor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	actor := domain.Actor{ID: claims.Subject, Role: claims.Role, ClientID: claims.ClientID}
	if actor.ID == "" || !actor.Role.Valid() || actor.Role == domain.RoleSystem {
		return domain.Actor{}, ErrInvalidToken
	}
	if actor.Role == domain.RoleClient && actor.ClientID == "" {
		return domain.Actor{}, ErrInvalidToken
	}
	return actor, nil
}
