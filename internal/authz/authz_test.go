package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaticano/paroquia-auth/internal/roles"
)

func ctxWith(role roles.Role) context.Context {
	return IntoContext(context.Background(), Principal{
		UserID:   "usr_123",
		Username: "maria",
		Role:     role,
	})
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	t.Parallel()

	err := RequireRole(context.Background(), roles.SuperAdmin)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	ctx := ctxWith(roles.Secretario)

	require.NoError(t, RequireRole(ctx, roles.Secretario))
	assert.ErrorIs(t, RequireRole(ctx, roles.SuperAdmin), ErrForbidden)
}

func TestRequireAnyRole(t *testing.T) {
	t.Parallel()

	ctx := ctxWith(roles.Secretario)

	require.NoError(t, RequireAnyRole(ctx, roles.SuperAdmin, roles.Secretario))
	assert.ErrorIs(t, RequireAnyRole(ctx, roles.SuperAdmin, roles.ChefeNucleo), ErrForbidden)
	assert.ErrorIs(t, RequireAnyRole(context.Background(), roles.Secretario), ErrUnauthenticated)
}

func TestCurrentUserID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", CurrentUserID(context.Background()))
	assert.Equal(t, "usr_123", CurrentUserID(ctxWith(roles.ChefeNucleo)))
}
