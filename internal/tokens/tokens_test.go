package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaticano/paroquia-auth/internal/roles"
)

func newTestIssuer() *Issuer {
	return &Issuer{Secret: []byte("test-jwt-secret")}
}

func TestIssuer_MintAndVerify(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()

	token, err := iss.Mint("usr_123", "admin", roles.SuperAdmin, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := iss.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "usr_123", claims.Subject)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "super_admin", claims.Role)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 2*time.Second)
}

func TestIssuer_Verify_Expired(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()

	token, err := iss.Mint("usr_123", "admin", roles.SuperAdmin, -time.Minute)
	require.NoError(t, err)

	claims, err := iss.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestIssuer_Verify_Malformed(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c"} {
		claims, err := iss.Verify(bad)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, ErrMalformed)
	}
}

func TestIssuer_Verify_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := newTestIssuer().Mint("usr_123", "admin", roles.SuperAdmin, time.Minute)
	require.NoError(t, err)

	other := &Issuer{Secret: []byte("another-secret")}
	claims, err := other.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestIssuer_Verify_UnexpectedMethod(t *testing.T) {
	t.Parallel()

	iss := newTestIssuer()

	// Same secret but signed with a different HMAC variant.
	hs256 := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Username: "admin",
		Role:     "super_admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "usr_123",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	token, err := hs256.SignedString(iss.Secret)
	require.NoError(t, err)

	claims, err := iss.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrUnsupported)
}
