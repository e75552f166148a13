package security

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
)

var (
	ErrEmptySecret  = errors.New("session secret is empty")
	ErrInvalidToken = errors.New("invalid session token")
)

const issuer = "dermacheck"

type sessionClaims struct {
	Role     string `json:"role"`
	Remember bool   `json:"remember,omitempty"`
	jwt.RegisteredClaims
}

// JWTSessionManager emite tokens HS256 usados no cookie de sessão
type JWTSessionManager struct {
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewJWTSessionManager cria o gerenciador de sessões
func NewJWTSessionManager(secret string, ttl, rememberTTL time.Duration) (*JWTSessionManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &JWTSessionManager{
		secret:      []byte(secret),
		ttl:         ttl,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}, nil
}

var _ ports.SessionManager = (*JWTSessionManager)(nil)

// Issue assina um token; remember estende a validade para rememberTTL
func (m *JWTSessionManager) Issue(userID, role string, remember bool) (string, ports.SessionClaims, error) {
	now := m.now()
	ttl := m.ttl
	if remember {
		ttl = m.rememberTTL
	}
	expiresAt := now.Add(ttl)

	claims := sessionClaims{
		Role:     role,
		Remember: remember,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", ports.SessionClaims{}, err
	}

	return token, ports.SessionClaims{
		UserID:    userID,
		Role:      role,
		Remember:  remember,
		ExpiresAt: expiresAt,
	}, nil
}

// Parse valida assinatura, emissor e expiração
func (m *JWTSessionManager) Parse(tokenStr string) (*ports.SessionClaims, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	c, _ := tok.Claims.(*sessionClaims)
	if c == nil || c.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &ports.SessionClaims{
		UserID:    c.Subject,
		Role:      c.Role,
		Remember:  c.Remember,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
