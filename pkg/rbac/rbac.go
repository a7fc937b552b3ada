// Package rbac is the authorization guard. It decides whether a principal may
// perform an action on a resource, from the principal's role and, for
// restaurant-scoped actions, from who owns the target restaurant.
package rbac

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/logger"
	"github.com/shashiranjanraj/foodcourt/pkg/response"
)

// Action is an operation subject to authorization.
type Action uint8

const (
	// customer-scoped
	PlaceOrder Action = iota + 1
	ViewOwnOrders

	// customer or restaurant scoped, depending on the caller
	ViewOrder

	// restaurant-scoped
	CreateRestaurant
	UpdateRestaurant
	ManageMenu
	ViewRestaurantOrders
	SetOrderStatus

	// account-scoped: the caller's own account, any account for administrators
	ManageAccount

	// administrator-only
	ReviewRestaurant
	CreateAdmin
	ListUsers
	ViewUser
	ListAllOrders
)

var actionNames = map[Action]string{
	PlaceOrder:           "place_order",
	ViewOwnOrders:        "view_own_orders",
	ViewOrder:            "view_order",
	CreateRestaurant:     "create_restaurant",
	UpdateRestaurant:     "update_restaurant",
	ManageMenu:           "manage_menu",
	ViewRestaurantOrders: "view_restaurant_orders",
	SetOrderStatus:       "set_order_status",
	ManageAccount:        "manage_account",
	ReviewRestaurant:     "review_restaurant",
	CreateAdmin:          "create_admin",
	ListUsers:            "list_users",
	ViewUser:             "view_user",
	ListAllOrders:        "list_all_orders",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "unknown"
}

// Resource describes the target of an action by its ownership relations.
// Zero fields mean "not applicable".
type Resource struct {
	RestaurantID uint // restaurant the target belongs to
	CustomerID   uint // customer the target belongs to
	UserID       uint // account the target is
}

// Catalog resolves restaurant ownership. A restaurant-owner with no
// provisioned restaurant must yield an apperr NotFound.
type Catalog interface {
	OwnedRestaurantID(ctx context.Context, ownerID uint) (uint, error)
}

// DenialRecorder is notified of every Forbidden decision.
type DenialRecorder func(action Action, role auth.Role)

// Guard evaluates authorization rules.
type Guard struct {
	catalog  Catalog
	onDenied DenialRecorder
}

func NewGuard(catalog Catalog) *Guard {
	return &Guard{catalog: catalog}
}

// OnDenied installs a hook invoked on every Forbidden decision.
func (g *Guard) OnDenied(fn DenialRecorder) *Guard {
	g.onDenied = fn
	return g
}

// CheckRole answers whether the principal's role can ever perform action,
// without looking at a concrete resource.
func (g *Guard) CheckRole(p auth.Principal, action Action) error {
	switch p.Role {
	case auth.RoleAdministrator:
		return nil
	case auth.RoleRestaurantOwner:
		switch action {
		case CreateRestaurant, UpdateRestaurant, ManageMenu, ViewRestaurantOrders, SetOrderStatus, ViewOrder, ManageAccount:
			return nil
		}
	case auth.RoleCustomer:
		switch action {
		case PlaceOrder, ViewOwnOrders, ViewOrder, ManageAccount:
			return nil
		}
	}
	return g.deny(p, action)
}

// Authorize decides whether p may perform action on res.
//
// Administrators may do everything. Restaurant-owners are confined to the
// restaurant they own; customers to resources carrying their own identity.
// Account management is limited to the caller's own account for both.
func (g *Guard) Authorize(ctx context.Context, p auth.Principal, action Action, res Resource) error {
	if err := g.CheckRole(p, action); err != nil {
		return err
	}

	if action == ManageAccount && p.Role != auth.RoleAdministrator {
		if res.UserID == 0 || res.UserID != p.UserID {
			return g.deny(p, action)
		}
		return nil
	}

	switch p.Role {
	case auth.RoleAdministrator:
		return nil
	case auth.RoleRestaurantOwner:
		if action == CreateRestaurant {
			return nil
		}
		return g.requireOwnership(ctx, p, action, res.RestaurantID)
	case auth.RoleCustomer:
		if res.CustomerID == 0 || res.CustomerID != p.UserID {
			return g.deny(p, action)
		}
		return nil
	}
	return g.deny(p, action)
}

// OwnedRestaurant resolves the restaurant owned by p.
func (g *Guard) OwnedRestaurant(ctx context.Context, p auth.Principal) (uint, error) {
	if p.Role != auth.RoleRestaurantOwner {
		return 0, g.deny(p, ViewRestaurantOrders)
	}
	return g.catalog.OwnedRestaurantID(ctx, p.UserID)
}

func (g *Guard) requireOwnership(ctx context.Context, p auth.Principal, action Action, restaurantID uint) error {
	owned, err := g.catalog.OwnedRestaurantID(ctx, p.UserID)
	if err != nil {
		return err
	}
	if restaurantID == 0 || owned != restaurantID {
		return g.deny(p, action)
	}
	return nil
}

func (g *Guard) deny(p auth.Principal, action Action) error {
	logger.Debug("rbac: denied", "user_id", p.UserID, "role", p.Role, "action", action.String())
	if g.onDenied != nil {
		g.onDenied(action, p.Role)
	}
	return apperr.Forbidden("you are not allowed to " + action.String())
}

// Require returns middleware that rejects principals whose role can never
// perform action. Ownership is still checked by the service.
// Requires middleware.Authenticate to have run.
func Require(g *Guard, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if err := g.CheckRole(p, action); err != nil {
				response.Fail(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
