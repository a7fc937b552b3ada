package repositories

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/cache"
)

func TestCatalogRepositoryUsesCache(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	mr := miniredis.RunT(t)
	store, err := cache.Connect(ctx, mr.Addr(), "", "fc:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	catalog := NewCatalogRepository(db, store, time.Minute)

	rest := &models.Restaurant{OwnerID: 7, Name: "Dosa Point", Status: models.RestaurantApproved, IsActive: true}
	require.NoError(t, catalog.CreateRestaurant(ctx, rest))

	id, err := catalog.OwnedRestaurantID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, rest.ID, id)
	assert.True(t, mr.Exists("fc:owner:7"))

	_, err = catalog.OwnedRestaurantID(ctx, 8)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	assert.False(t, mr.Exists("fc:owner:8"), "misses are not cached")

	got, err := catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dosa Point", got.Name)

	// A write behind the repository's back is not seen while cached.
	require.NoError(t, db.Model(&models.Restaurant{}).Where("id = ?", rest.ID).Update("name", "Sneaky").Error)
	got, err = catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dosa Point", got.Name)

	// Writes through the repository invalidate.
	ok, err := catalog.SetRestaurantStatus(ctx, rest.ID, models.RestaurantApproved, models.RestaurantRejected)
	require.NoError(t, err)
	require.True(t, ok)
	got, err = catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RestaurantRejected, got.Status)
	assert.Equal(t, "Sneaky", got.Name)
	assert.False(t, got.AcceptsOrders())
}

func TestRestaurantWritesDropStaleEntries(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	mr := miniredis.RunT(t)
	store, err := cache.Connect(ctx, mr.Addr(), "", "fc:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	catalog := NewCatalogRepository(db, store, time.Minute)
	rest := &models.Restaurant{OwnerID: 7, Name: "Dosa Point", Status: models.RestaurantApproved, IsActive: true}
	require.NoError(t, catalog.CreateRestaurant(ctx, rest))
	stale := *rest

	// A reader that loaded the old row re-caches it once the first delete ran.
	require.NoError(t, store.Set(ctx, restaurantKey(rest.ID), stale, time.Minute))
	rest.IsActive = false
	require.NoError(t, catalog.UpdateRestaurant(ctx, rest, []string{"is_active"}))
	assert.False(t, mr.Exists("fc:restaurant:"+strconv.FormatUint(uint64(rest.ID), 10)))

	got, err := catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// Even a stale entry written after the status change is not trusted by
	// the uncached read order placement uses.
	ok, err := catalog.SetRestaurantStatus(ctx, rest.ID, models.RestaurantApproved, models.RestaurantRejected)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, store.Set(ctx, restaurantKey(rest.ID), stale, time.Minute))

	cached, err := catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.True(t, cached.AcceptsOrders())

	fresh, err := catalog.LoadRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RestaurantRejected, fresh.Status)
	assert.False(t, fresh.AcceptsOrders())

	_, err = catalog.LoadRestaurant(ctx, 999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUserDeleteRemovesOwnedCatalog(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	mr := miniredis.RunT(t)
	store, err := cache.Connect(ctx, mr.Addr(), "", "fc:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	users := NewUserRepository(db, store)
	catalog := NewCatalogRepository(db, store, time.Minute)

	owner := &models.User{Name: "Asha", Email: "asha@example.com", PasswordHash: "x", Role: auth.RoleRestaurantOwner}
	rest := &models.Restaurant{Name: "Asha", Status: models.RestaurantApproved, IsActive: true}
	require.NoError(t, users.Create(ctx, owner, rest))
	item := &models.MenuItem{RestaurantID: rest.ID, Name: "Idli", Price: dec("40"), Available: true}
	require.NoError(t, catalog.CreateMenuItem(ctx, item))

	_, err = catalog.OwnedRestaurantID(ctx, owner.ID)
	require.NoError(t, err)
	_, err = catalog.GetRestaurant(ctx, rest.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists("fc:owner:"+strconv.FormatUint(uint64(owner.ID), 10)))

	require.NoError(t, users.Delete(ctx, owner.ID))

	assert.False(t, mr.Exists("fc:owner:"+strconv.FormatUint(uint64(owner.ID), 10)))
	assert.False(t, mr.Exists("fc:restaurant:"+strconv.FormatUint(uint64(rest.ID), 10)))

	_, err = catalog.GetRestaurant(ctx, rest.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = catalog.GetMenuItem(ctx, item.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	_, err = users.FindByID(ctx, owner.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	assert.True(t, apperr.IsKind(users.Delete(ctx, owner.ID), apperr.KindNotFound))

	n, err := users.CountByRole(ctx, auth.RoleRestaurantOwner)
	require.NoError(t, err)
	assert.Zero(t, n)
}
