// Package token signs and verifies the bearer tokens that carry a staff
// member's identity and permission snapshot. Verification never consults the
// credential store: a token is self-contained until it expires.
package token

import (
	"errors"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrExpirado           = errors.New("token expirado")
	ErrMalformado         = errors.New("token malformado")
	ErrAssinaturaInvalida = errors.New("assinatura invalida")
)

// Claims is the principal embedded in every access token. The permission set
// is a snapshot taken at issuance — later grant or role changes do not affect
// outstanding tokens until they expire (bounded staleness, accepted).
type Claims struct {
	Username   string               `json:"username"`
	Role       string               `json:"role"`
	Permissoes model.PermissionList `json:"permissions"`
	jwt.RegisteredClaims
}

// Allows applies the permission matching rule to the snapshot.
func (c *Claims) Allows(module string, action model.PermissionAction) bool {
	return c.Permissoes.Allows(module, action)
}

// Issuer signs and verifies HMAC-SHA256 tokens with a server-held secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL is the configured token lifetime (used for expires_in responses).
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Sign builds the claim snapshot for a user and signs it.
func (i *Issuer) Sign(u *model.Usuario) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username:   u.Username,
		Role:       u.Role,
		Permissoes: u.Permissoes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses and validates a token string. Failures are collapsed into the
// three typed errors above; a token whose expiry equals the verification
// instant is already expired.
func (i *Issuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	switch {
	case err == nil && tok.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpirado
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return nil, ErrAssinaturaInvalida
	default:
		return nil, ErrMalformado
	}
}
