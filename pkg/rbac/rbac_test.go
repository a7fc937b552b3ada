package rbac_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/rbac"
)

// fakeCatalog maps owner ids to restaurant ids.
type fakeCatalog map[uint]uint

func (f fakeCatalog) OwnedRestaurantID(_ context.Context, ownerID uint) (uint, error) {
	id, ok := f[ownerID]
	if !ok {
		return 0, apperr.NotFound("restaurant", "owned by current user")
	}
	return id, nil
}

var (
	admin    = auth.Principal{UserID: 1, Role: auth.RoleAdministrator}
	ownerA   = auth.Principal{UserID: 10, Role: auth.RoleRestaurantOwner}
	ownerB   = auth.Principal{UserID: 20, Role: auth.RoleRestaurantOwner}
	newOwner = auth.Principal{UserID: 30, Role: auth.RoleRestaurantOwner}
	customer = auth.Principal{UserID: 100, Role: auth.RoleCustomer}
)

func newGuard() *rbac.Guard {
	return rbac.NewGuard(fakeCatalog{10: 1, 20: 2})
}

func TestAdministratorIsAllowedEverything(t *testing.T) {
	g := newGuard()
	for a := rbac.PlaceOrder; a <= rbac.ListAllOrders; a++ {
		assert.NoError(t, g.Authorize(context.Background(), admin, a, rbac.Resource{RestaurantID: 99, CustomerID: 77}), a.String())
	}
}

func TestOwnerConfinedToOwnRestaurant(t *testing.T) {
	g := newGuard()
	ctx := context.Background()

	for _, a := range []rbac.Action{rbac.ManageMenu, rbac.UpdateRestaurant, rbac.ViewRestaurantOrders, rbac.SetOrderStatus, rbac.ViewOrder} {
		assert.NoError(t, g.Authorize(ctx, ownerA, a, rbac.Resource{RestaurantID: 1}), a.String())

		err := g.Authorize(ctx, ownerA, a, rbac.Resource{RestaurantID: 2})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden), a.String())

		err = g.Authorize(ctx, ownerB, a, rbac.Resource{RestaurantID: 1})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden), a.String())
	}
}

func TestOwnerWithoutRestaurantIsNotFound(t *testing.T) {
	err := newGuard().Authorize(context.Background(), newOwner, rbac.ManageMenu, rbac.Resource{RestaurantID: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	_, err = newGuard().OwnedRestaurant(context.Background(), newOwner)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOwnerMayCreateRestaurantWithoutOne(t *testing.T) {
	assert.NoError(t, newGuard().Authorize(context.Background(), newOwner, rbac.CreateRestaurant, rbac.Resource{}))
}

func TestCustomerScopedToOwnIdentity(t *testing.T) {
	g := newGuard()
	ctx := context.Background()

	assert.NoError(t, g.Authorize(ctx, customer, rbac.PlaceOrder, rbac.Resource{CustomerID: 100}))
	assert.NoError(t, g.Authorize(ctx, customer, rbac.ViewOrder, rbac.Resource{CustomerID: 100, RestaurantID: 1}))

	err := g.Authorize(ctx, customer, rbac.ViewOrder, rbac.Resource{CustomerID: 101, RestaurantID: 1})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	err = g.Authorize(ctx, customer, rbac.ViewOwnOrders, rbac.Resource{})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestAccountManagementLimitedToSelf(t *testing.T) {
	g := newGuard()
	ctx := context.Background()

	for _, p := range []auth.Principal{customer, ownerA} {
		assert.NoError(t, g.Authorize(ctx, p, rbac.ManageAccount, rbac.Resource{UserID: p.UserID}), string(p.Role))

		err := g.Authorize(ctx, p, rbac.ManageAccount, rbac.Resource{UserID: p.UserID + 1})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden), string(p.Role))

		err = g.Authorize(ctx, p, rbac.ManageAccount, rbac.Resource{})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden), string(p.Role))
	}

	assert.NoError(t, g.Authorize(ctx, admin, rbac.ManageAccount, rbac.Resource{UserID: 100}))
	assert.NoError(t, g.Authorize(ctx, newOwner, rbac.ManageAccount, rbac.Resource{UserID: 30}))
}

func TestRoleGating(t *testing.T) {
	g := newGuard()
	ctx := context.Background()

	customerDenied := []rbac.Action{rbac.SetOrderStatus, rbac.ManageMenu, rbac.UpdateRestaurant, rbac.ViewRestaurantOrders,
		rbac.CreateRestaurant, rbac.ReviewRestaurant, rbac.CreateAdmin, rbac.ListUsers, rbac.ViewUser, rbac.ListAllOrders}
	for _, a := range customerDenied {
		err := g.Authorize(ctx, customer, a, rbac.Resource{CustomerID: 100, RestaurantID: 1})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden), a.String())
	}

	ownerDenied := []rbac.Action{rbac.PlaceOrder, rbac.ViewOwnOrders, rbac.ReviewRestaurant, rbac.CreateAdmin, rbac.ListUsers, rbac.ViewUser, rbac.ListAllOrders}
	for _, a := range ownerDenied {
		err := g.Authorize(ctx, ownerA, a, rbac.Resource{CustomerID: 10, RestaurantID: 1})
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden), a.String())
	}

	unknown := auth.Principal{UserID: 5, Role: auth.Role("courier")}
	err := g.Authorize(ctx, unknown, rbac.ViewOrder, rbac.Resource{CustomerID: 5})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestDenialHookAndMessage(t *testing.T) {
	var denied []rbac.Action
	g := newGuard().OnDenied(func(a rbac.Action, _ auth.Role) { denied = append(denied, a) })

	err := g.Authorize(context.Background(), ownerA, rbac.ViewRestaurantOrders, rbac.Resource{RestaurantID: 2})
	require.Error(t, err)
	assert.Equal(t, []rbac.Action{rbac.ViewRestaurantOrders}, denied)
	assert.NotContains(t, err.Error(), "2")
}

func TestRequireMiddleware(t *testing.T) {
	g := newGuard()
	h := rbac.Require(g, rbac.ListAllOrders)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(rec, req.WithContext(auth.WithPrincipal(req.Context(), customer)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(auth.WithPrincipal(req.Context(), admin)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
