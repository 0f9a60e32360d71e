package authz

import (
	"context"
	"errors"

	"github.com/vaticano/paroquia-auth/internal/roles"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("permission denied")
)

// Principal is the request-scoped identity established after access-token
// verification. It is carried explicitly in the request context; there is no
// global security state.
type Principal struct {
	UserID   string
	Username string
	Role     roles.Role
}

type ctxKey struct{}

func IntoContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}

// CurrentUserID returns the authenticated user id, or "" when the request
// carries no principal.
func CurrentUserID(ctx context.Context) string {
	if p, ok := FromContext(ctx); ok {
		return p.UserID
	}
	return ""
}

// RequireRole fails with ErrUnauthenticated when no principal is present and
// with ErrForbidden when the principal holds a different role.
func RequireRole(ctx context.Context, role roles.Role) error {
	p, ok := FromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if p.Role != role {
		return ErrForbidden
	}
	return nil
}

// RequireAnyRole succeeds when the principal holds at least one of the given
// roles.
func RequireAnyRole(ctx context.Context, wanted ...roles.Role) error {
	p, ok := FromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	for _, role := range wanted {
		if p.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
