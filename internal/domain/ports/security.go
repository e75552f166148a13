package ports

import "time"

// PasswordHasher abstrai o algoritmo de hash de senhas
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// SessionClaims são os dados mínimos de uma sessão autenticada
type SessionClaims struct {
	UserID    string
	Role      string
	Remember  bool
	ExpiresAt time.Time
}

// SessionManager emite e valida tokens de sessão
type SessionManager interface {
	Issue(userID, role string, remember bool) (token string, claims SessionClaims, err error)
	Parse(token string) (*SessionClaims, error)
}
