package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodcourt/app/models"
	_ "github.com/shashiranjanraj/foodcourt/database/migrations"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/database"
	"github.com/shashiranjanraj/foodcourt/pkg/migration"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestUserRepositoryCreateWithRestaurant(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	users := NewUserRepository(db, nil)
	catalog := NewCatalogRepository(db, nil, time.Minute)

	owner := &models.User{Name: "Asha", Email: " Asha@Example.com ", PasswordHash: "x", Role: auth.RoleRestaurantOwner}
	rest := &models.Restaurant{Name: "Asha", Status: models.RestaurantPending, IsActive: true}
	require.NoError(t, users.Create(ctx, owner, rest))
	assert.Equal(t, "asha@example.com", owner.Email)
	assert.Equal(t, owner.ID, rest.OwnerID)

	got, err := users.FindByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)

	id, err := catalog.OwnedRestaurantID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, rest.ID, id)

	dup := &models.User{Name: "Other", Email: "asha@example.com", PasswordHash: "x", Role: auth.RoleCustomer}
	err = users.Create(ctx, dup, nil)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequest))

	_, err = users.FindByID(ctx, 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	all, err := users.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCatalogRepository(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	catalog := NewCatalogRepository(db, nil, time.Minute)

	_, err := catalog.OwnedRestaurantID(ctx, 42)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	open := &models.Restaurant{OwnerID: 1, Name: "Open", Status: models.RestaurantApproved, IsActive: true, Cuisine: []string{"thai"}}
	closed := &models.Restaurant{OwnerID: 2, Name: "Closed", Status: models.RestaurantPending, IsActive: true}
	require.NoError(t, catalog.CreateRestaurant(ctx, open))
	require.NoError(t, catalog.CreateRestaurant(ctx, closed))

	err = catalog.CreateRestaurant(ctx, &models.Restaurant{OwnerID: 1, Name: "Second"})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequest))

	got, err := catalog.GetRestaurant(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"thai"}, got.Cuisine)

	list, err := catalog.ListRestaurants(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)

	name := "Renamed"
	patch := models.RestaurantPatch{Name: &name}
	cols := patch.Apply(got)
	got.Status = models.RestaurantRejected // not in cols, must not persist
	require.NoError(t, catalog.UpdateRestaurant(ctx, got, cols))
	got, err = catalog.GetRestaurant(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, models.RestaurantApproved, got.Status)

	ok, err := catalog.SetRestaurantStatus(ctx, closed.ID, models.RestaurantPending, models.RestaurantApproved)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = catalog.SetRestaurantStatus(ctx, closed.ID, models.RestaurantPending, models.RestaurantRejected)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogMenu(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	catalog := NewCatalogRepository(db, nil, time.Minute)

	open := &models.Restaurant{OwnerID: 1, Name: "Open", Status: models.RestaurantApproved, IsActive: true}
	hidden := &models.Restaurant{OwnerID: 2, Name: "Hidden", Status: models.RestaurantPending, IsActive: true}
	require.NoError(t, catalog.CreateRestaurant(ctx, open))
	require.NoError(t, catalog.CreateRestaurant(ctx, hidden))

	curry := &models.MenuItem{RestaurantID: open.ID, Name: "Green Curry", Price: dec("120"), Category: "mains", Available: true}
	rice := &models.MenuItem{RestaurantID: open.ID, Name: "Sticky Rice", Price: dec("30"), Category: "sides", Available: true}
	secret := &models.MenuItem{RestaurantID: hidden.ID, Name: "Red Curry", Price: dec("99"), Category: "mains", Available: true}
	for _, m := range []*models.MenuItem{curry, rice, secret} {
		require.NoError(t, catalog.CreateMenuItem(ctx, m))
	}

	visible, err := catalog.ListMenu(ctx, models.MenuFilter{OnlyVisible: true, Query: "CURRY"})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, curry.ID, visible[0].ID)

	mine, err := catalog.ListMenu(ctx, models.MenuFilter{RestaurantID: hidden.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)

	sides, err := catalog.ListMenu(ctx, models.MenuFilter{Category: "sides"})
	require.NoError(t, err)
	require.Len(t, sides, 1)
	assert.Equal(t, rice.ID, sides[0].ID)

	items, err := catalog.GetMenuItems(ctx, []uint{rice.ID, curry.ID})
	require.NoError(t, err)
	assert.True(t, dec("120").Equal(items[curry.ID].Price))

	_, err = catalog.GetMenuItems(ctx, []uint{curry.ID, 777})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindNotFound, appErr.Kind)
	assert.Equal(t, uint(777), appErr.ID)

	price := dec("125.50")
	cols := models.MenuItemPatch{Price: &price}.Apply(curry)
	require.NoError(t, catalog.UpdateMenuItem(ctx, curry, cols))
	got, err := catalog.GetMenuItem(ctx, curry.ID)
	require.NoError(t, err)
	assert.True(t, price.Equal(got.Price), got.Price.String())

	require.NoError(t, catalog.DeleteMenuItem(ctx, rice.ID))
	_, err = catalog.GetMenuItem(ctx, rice.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestOrderRepository(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	orders := NewOrderRepository(db)

	place := func(customer, restaurant uint) *models.Order {
		lines := []models.OrderLine{
			{MenuItemID: 1, Name: "X", Quantity: 2, UnitPrice: dec("100")},
			{MenuItemID: 2, Name: "Y", Quantity: 1, UnitPrice: dec("50")},
		}
		totals := models.PriceLines(lines)
		o := &models.Order{
			CustomerID:    customer,
			RestaurantID:  restaurant,
			Lines:         lines,
			ItemsSubtotal: totals.ItemsSubtotal,
			TaxAmount:     totals.TaxAmount,
			DeliveryFee:   totals.DeliveryFee,
			GrandTotal:    totals.GrandTotal,
			Status:        models.StatusPending,
		}
		require.NoError(t, orders.Create(ctx, o))
		return o
	}

	first := place(7, 1)
	second := place(7, 2)
	place(8, 1)

	got, err := orders.FindByID(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "X", got.Lines[0].Name)
	assert.Equal(t, "Y", got.Lines[1].Name)
	assert.True(t, dec("292.5").Equal(got.GrandTotal), got.GrandTotal.String())

	mine, err := orders.List(ctx, models.OrderFilter{CustomerID: 7})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID, "newest first")

	atOne, err := orders.List(ctx, models.OrderFilter{RestaurantID: 1})
	require.NoError(t, err)
	assert.Len(t, atOne, 2)
	for _, o := range atOne {
		assert.Equal(t, uint(1), o.RestaurantID)
	}

	ok, err := orders.UpdateStatus(ctx, first.ID, models.StatusPending, models.StatusPreparing)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = orders.UpdateStatus(ctx, first.ID, models.StatusPending, models.StatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok, "stale compare-and-set must lose")

	preparing, err := orders.List(ctx, models.OrderFilter{Status: models.StatusPreparing})
	require.NoError(t, err)
	require.Len(t, preparing, 1)
	assert.Equal(t, first.ID, preparing[0].ID)

	_, err = orders.FindByID(ctx, 12345)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
