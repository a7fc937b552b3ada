package auth

import (
	"context"
	"fmt"
)

// Role is the closed set of actor roles. Anything outside it is rejected by
// ParseRole, and the authorization guard switches over it exhaustively.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant-owner"
	RoleAdministrator   Role = "administrator"
)

// Roles lists every valid role.
var Roles = []Role{RoleCustomer, RoleRestaurantOwner, RoleAdministrator}

// ParseRole validates s against the closed role set.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleRestaurantOwner, RoleAdministrator:
		return r, nil
	}
	return "", fmt.Errorf("auth: unknown role %q", s)
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

// Principal is the authenticated actor of one request.
type Principal struct {
	UserID uint
	Role   Role
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdministrator }

type principalKey struct{}

// WithPrincipal stores p on ctx. Only the HTTP edge does this; services take
// the principal as an explicit argument.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by the auth middleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
