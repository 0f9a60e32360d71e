package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vaticano/paroquia-auth/internal/roles"
)

// Terminal verification outcomes. None of them is retryable.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrExpired          = errors.New("token expired")
	ErrUnsupported      = errors.New("unexpected signing method")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// AccessClaims is the payload of an access token: identity plus role, nothing
// that would require server-side state to interpret.
type AccessClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies stateless HMAC-signed access tokens. A token
// cannot be revoked before its own expiry, which is why the TTL is short.
type Issuer struct {
	Secret []byte
}

func (i *Issuer) Mint(userID, username string, role roles.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Username: username,
		Role:     role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(i.Secret)
}

func (i *Issuer) Verify(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
			return nil, ErrUnsupported
		}
		return i.Secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupported):
			return nil, ErrUnsupported
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !tkn.Valid {
		return nil, ErrMalformed
	}
	return &claims, nil
}
