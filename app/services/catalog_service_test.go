package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
)

func ptr[T any](v T) *T { return &v }

func TestRestaurantReview(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	root := s.admin(t)
	owner := s.register(t, "Olu", "olu@example.com", auth.RoleRestaurantOwner)

	rest, err := s.catalog.MyRestaurant(ctx, owner)
	require.NoError(t, err)

	list, err := s.catalog.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "pending restaurants are not public")

	all, err := s.catalog.ListAllRestaurants(ctx, root)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.catalog.ReviewRestaurant(ctx, owner, rest.ID, true)
	assertKind(t, apperr.KindForbidden, err)

	approved, err := s.catalog.ReviewRestaurant(ctx, root, rest.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.RestaurantApproved, approved.Status)

	_, err = s.catalog.ReviewRestaurant(ctx, root, rest.ID, false)
	assertKind(t, apperr.KindInvalidTransition, err)

	list, err = s.catalog.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.catalog.ReviewRestaurant(ctx, root, 999, true)
	assertKind(t, apperr.KindNotFound, err)
}

func TestUpdateRestaurantAllowList(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	ownerA := s.register(t, "A", "a@example.com", auth.RoleRestaurantOwner)
	ownerB := s.register(t, "B", "b@example.com", auth.RoleRestaurantOwner)
	restA, err := s.catalog.MyRestaurant(ctx, ownerA)
	require.NoError(t, err)

	_, err = s.catalog.UpdateRestaurant(ctx, ownerB, restA.ID, models.RestaurantPatch{Name: ptr("Hijacked")})
	assertKind(t, apperr.KindForbidden, err)

	updated, err := s.catalog.UpdateRestaurant(ctx, ownerA, restA.ID, models.RestaurantPatch{
		Name:    ptr("Spice Route"),
		Cuisine: ptr([]string{"indian", "vegan"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "Spice Route", updated.Name)
	assert.Equal(t, models.RestaurantPending, updated.Status)

	again, err := s.catalog.GetRestaurant(ctx, restA.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"indian", "vegan"}, again.Cuisine)
	assert.Equal(t, ownerA.UserID, again.OwnerID)

	_, err = s.catalog.UpdateRestaurant(ctx, ownerA, restA.ID, models.RestaurantPatch{Name: ptr("  ")})
	assertKind(t, apperr.KindInvalidRequest, err)
}

func TestCreateRestaurant(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	root := s.admin(t)
	owner := s.register(t, "Olu", "olu@example.com", auth.RoleRestaurantOwner)
	cust := s.register(t, "Cara", "cara@example.com", auth.RoleCustomer)

	// the owner already got one at registration
	_, err := s.catalog.CreateRestaurant(ctx, owner, RestaurantInput{Name: "Second"})
	assertKind(t, apperr.KindInvalidRequest, err)

	_, err = s.catalog.CreateRestaurant(ctx, cust, RestaurantInput{Name: "Nope"})
	assertKind(t, apperr.KindForbidden, err)

	_, err = s.catalog.CreateRestaurant(ctx, root, RestaurantInput{Name: "For Cara", OwnerID: cust.UserID})
	assertKind(t, apperr.KindInvalidRequest, err)

	_, err = s.catalog.CreateRestaurant(ctx, root, RestaurantInput{Name: "Orphan"})
	assertKind(t, apperr.KindInvalidRequest, err)
}

func TestMenuManagementAndPriceSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	root := s.admin(t)
	ownerA := s.register(t, "A", "a@example.com", auth.RoleRestaurantOwner)
	ownerB := s.register(t, "B", "b@example.com", auth.RoleRestaurantOwner)
	cust := s.register(t, "Cara", "cara@example.com", auth.RoleCustomer)

	restA, err := s.catalog.MyRestaurant(ctx, ownerA)
	require.NoError(t, err)
	_, err = s.catalog.ReviewRestaurant(ctx, root, restA.ID, true)
	require.NoError(t, err)

	_, err = s.catalog.CreateMenuItem(ctx, cust, MenuItemInput{Name: "X", Price: dec("10")})
	assertKind(t, apperr.KindForbidden, err)

	_, err = s.catalog.CreateMenuItem(ctx, ownerA, MenuItemInput{Name: "Free", Price: dec("0")})
	assertKind(t, apperr.KindInvalidRequest, err)

	_, err = s.catalog.CreateMenuItem(ctx, ownerB, MenuItemInput{RestaurantID: restA.ID, Name: "Sneaky", Price: dec("5")})
	assertKind(t, apperr.KindForbidden, err)

	_, err = s.catalog.CreateMenuItem(ctx, root, MenuItemInput{Name: "No restaurant", Price: dec("5")})
	assertKind(t, apperr.KindInvalidRequest, err)

	curry, err := s.catalog.CreateMenuItem(ctx, ownerA, MenuItemInput{Name: "Curry", Price: dec("100"), Category: "mains"})
	require.NoError(t, err)
	assert.True(t, curry.Available)
	assert.Equal(t, restA.ID, curry.RestaurantID)

	hidden, err := s.catalog.CreateMenuItem(ctx, root, MenuItemInput{RestaurantID: restA.ID, Name: "Secret", Price: dec("7"), Available: ptr(false)})
	require.NoError(t, err)

	public, err := s.catalog.ListMenu(ctx, models.MenuFilter{RestaurantID: restA.ID})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, curry.ID, public[0].ID)

	mine, err := s.catalog.MyMenu(ctx, ownerA)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	order, err := s.orders.PlaceOrder(ctx, cust, PlaceOrderInput{
		RestaurantID: restA.ID,
		Items:        []OrderItemInput{{MenuItemID: curry.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = s.catalog.UpdateMenuItem(ctx, ownerB, curry.ID, models.MenuItemPatch{Price: ptr(dec("1"))})
	assertKind(t, apperr.KindForbidden, err)

	_, err = s.catalog.UpdateMenuItem(ctx, ownerA, curry.ID, models.MenuItemPatch{Price: ptr(dec("-1"))})
	assertKind(t, apperr.KindInvalidRequest, err)

	updated, err := s.catalog.UpdateMenuItem(ctx, ownerA, curry.ID, models.MenuItemPatch{Price: ptr(dec("150"))})
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(updated.Price))

	stored, err := s.orders.GetOrder(ctx, cust, order.ID)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(stored.Lines[0].UnitPrice), "placed orders keep their price")
	assert.True(t, dec("135").Equal(stored.GrandTotal), stored.GrandTotal.String())

	require.NoError(t, s.catalog.DeleteMenuItem(ctx, ownerA, hidden.ID))
	assertKind(t, apperr.KindForbidden, s.catalog.DeleteMenuItem(ctx, ownerB, curry.ID))
	assertKind(t, apperr.KindNotFound, s.catalog.DeleteMenuItem(ctx, ownerA, hidden.ID))
}

func TestMenuPricesKeepTwoDecimals(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)
	root := s.admin(t)
	owner := s.register(t, "A", "a@example.com", auth.RoleRestaurantOwner)
	cust := s.register(t, "Cara", "cara@example.com", auth.RoleCustomer)

	rest, err := s.catalog.MyRestaurant(ctx, owner)
	require.NoError(t, err)
	_, err = s.catalog.ReviewRestaurant(ctx, root, rest.ID, true)
	require.NoError(t, err)

	_, err = s.catalog.CreateMenuItem(ctx, owner, MenuItemInput{Name: "Mint", Price: dec("0.004")})
	assertKind(t, apperr.KindInvalidRequest, err)

	item, err := s.catalog.CreateMenuItem(ctx, owner, MenuItemInput{Name: "Chai", Price: dec("12.50")})
	require.NoError(t, err)

	_, err = s.catalog.UpdateMenuItem(ctx, owner, item.ID, models.MenuItemPatch{Price: ptr(dec("1.005"))})
	assertKind(t, apperr.KindInvalidRequest, err)

	order, err := s.orders.PlaceOrder(ctx, cust, PlaceOrderInput{
		RestaurantID: rest.ID,
		Items:        []OrderItemInput{{MenuItemID: item.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.True(t, dec("37.50").Equal(order.ItemsSubtotal), order.ItemsSubtotal.String())
	assert.True(t, dec("69.38").Equal(order.GrandTotal), order.GrandTotal.String())

	stored, err := s.orders.GetOrder(ctx, cust, order.ID)
	require.NoError(t, err)
	assert.True(t, order.GrandTotal.Equal(stored.GrandTotal), stored.GrandTotal.String())
	assert.True(t, order.ItemsSubtotal.Equal(stored.ItemsSubtotal))
}
