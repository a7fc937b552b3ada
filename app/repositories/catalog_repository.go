package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/cache"
)

// CatalogRepository stores restaurants and menu items.
//
// Restaurant records and owner→restaurant lookups go through the cache;
// menu items never do, so prices read for an order are always current.
type CatalogRepository struct {
	db    *gorm.DB
	cache *cache.Store
	ttl   time.Duration
}

// NewCatalogRepository wires the repository. store may be nil.
func NewCatalogRepository(db *gorm.DB, store *cache.Store, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{db: db, cache: store, ttl: ttl}
}

func restaurantKey(id uint) string { return "restaurant:" + strconv.FormatUint(uint64(id), 10) }
func ownerKey(ownerID uint) string { return "owner:" + strconv.FormatUint(uint64(ownerID), 10) }

// errNoRestaurant is NotFound, not Forbidden: the owner simply has nothing yet.
func errNoRestaurant() error {
	return &apperr.Error{
		Kind:     apperr.KindNotFound,
		Resource: "restaurant",
		Message:  "no restaurant is registered for this account",
	}
}

// ─── Restaurants ──────────────────────────────────────────────────────────────

// GetRestaurant returns the restaurant with the given id, through the cache.
func (r *CatalogRepository) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	rest, err := cache.Remember(ctx, r.cache, restaurantKey(id), r.ttl, func() (models.Restaurant, error) {
		return r.loadRestaurant(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

// LoadRestaurant reads the restaurant straight from the database. Order
// placement uses it so a just-suspended restaurant is never seen as open.
func (r *CatalogRepository) LoadRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	rest, err := r.loadRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *CatalogRepository) loadRestaurant(ctx context.Context, id uint) (models.Restaurant, error) {
	var rest models.Restaurant
	err := r.db.WithContext(ctx).First(&rest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return rest, apperr.NotFound("restaurant", id)
	}
	if err != nil {
		return rest, fmt.Errorf("catalog: get restaurant %d: %w", id, err)
	}
	return rest, nil
}

// OwnedRestaurantID resolves the restaurant owned by ownerID. Ownership never
// changes once provisioned, so the mapping is cached.
func (r *CatalogRepository) OwnedRestaurantID(ctx context.Context, ownerID uint) (uint, error) {
	return cache.Remember(ctx, r.cache, ownerKey(ownerID), r.ttl, func() (uint, error) {
		var ids []uint
		err := r.db.WithContext(ctx).Model(&models.Restaurant{}).
			Where("owner_id = ?", ownerID).
			Limit(1).
			Pluck("id", &ids).Error
		if err != nil {
			return 0, fmt.Errorf("catalog: restaurant by owner %d: %w", ownerID, err)
		}
		if len(ids) == 0 {
			return 0, errNoRestaurant()
		}
		return ids[0], nil
	})
}

// FindRestaurantByOwner returns the restaurant owned by ownerID.
func (r *CatalogRepository) FindRestaurantByOwner(ctx context.Context, ownerID uint) (*models.Restaurant, error) {
	id, err := r.OwnedRestaurantID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return r.GetRestaurant(ctx, id)
}

// CreateRestaurant persists rest. An owner may own one restaurant only.
func (r *CatalogRepository) CreateRestaurant(ctx context.Context, rest *models.Restaurant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Restaurant{}).Where("owner_id = ?", rest.OwnerID).Count(&n).Error; err != nil {
			return fmt.Errorf("catalog: check owner: %w", err)
		}
		if n > 0 {
			return apperr.Invalid("this owner already has a restaurant")
		}
		if err := tx.Create(rest).Error; err != nil {
			return fmt.Errorf("catalog: create restaurant: %w", err)
		}
		return nil
	})
}

// UpdateRestaurant writes only cols of rest. The cached record is dropped
// before and after the write, so a read racing the write cannot re-cache
// the old row past the second delete.
func (r *CatalogRepository) UpdateRestaurant(ctx context.Context, rest *models.Restaurant, cols []string) error {
	if len(cols) == 0 {
		return nil
	}
	cols = append(cols, "updated_at")
	r.forget(ctx, restaurantKey(rest.ID))
	if err := r.db.WithContext(ctx).Model(rest).Select(cols).Updates(rest).Error; err != nil {
		return fmt.Errorf("catalog: update restaurant %d: %w", rest.ID, err)
	}
	r.forget(ctx, restaurantKey(rest.ID))
	return nil
}

// SetRestaurantStatus moves a restaurant from one review status to another.
// It reports false when the restaurant was no longer in from.
func (r *CatalogRepository) SetRestaurantStatus(ctx context.Context, id uint, from, to models.RestaurantStatus) (bool, error) {
	r.forget(ctx, restaurantKey(id))
	res := r.db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, fmt.Errorf("catalog: set restaurant %d status: %w", id, res.Error)
	}
	r.forget(ctx, restaurantKey(id))
	return res.RowsAffected == 1, nil
}

// ListRestaurants returns restaurants by name. With onlyOpen, only approved
// and active restaurants are included.
func (r *CatalogRepository) ListRestaurants(ctx context.Context, onlyOpen bool) ([]models.Restaurant, error) {
	q := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if onlyOpen {
		q = q.Where("status = ? AND is_active = ?", models.RestaurantApproved, true)
	}
	var out []models.Restaurant
	if err := q.Order("name, id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("catalog: list restaurants: %w", err)
	}
	return out, nil
}

// ─── Menu items ───────────────────────────────────────────────────────────────

// GetMenuItem returns the menu item with the given id.
func (r *CatalogRepository) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("menu item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get menu item %d: %w", id, err)
	}
	return &item, nil
}

// GetMenuItems fetches every id in one query. The first id (in ascending
// order) with no row yields NotFound.
func (r *CatalogRepository) GetMenuItems(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("catalog: get menu items: %w", err)
	}

	out := make(map[uint]models.MenuItem, len(items))
	for _, it := range items {
		out[it.ID] = it
	}

	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		if _, ok := out[id]; !ok {
			return nil, apperr.NotFound("menu item", id)
		}
	}
	return out, nil
}

func (r *CatalogRepository) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("catalog: create menu item: %w", err)
	}
	return nil
}

// UpdateMenuItem writes only cols of item.
func (r *CatalogRepository) UpdateMenuItem(ctx context.Context, item *models.MenuItem, cols []string) error {
	if len(cols) == 0 {
		return nil
	}
	cols = append(cols, "updated_at")
	if err := r.db.WithContext(ctx).Model(item).Select(cols).Updates(item).Error; err != nil {
		return fmt.Errorf("catalog: update menu item %d: %w", item.ID, err)
	}
	return nil
}

func (r *CatalogRepository) DeleteMenuItem(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id).Error; err != nil {
		return fmt.Errorf("catalog: delete menu item %d: %w", id, err)
	}
	return nil
}

// ListMenu returns menu items matching f, by category then name.
func (r *CatalogRepository) ListMenu(ctx context.Context, f models.MenuFilter) ([]models.MenuItem, error) {
	q := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if f.OnlyVisible {
		q = q.Joins("JOIN restaurants ON restaurants.id = menu_items.restaurant_id").
			Where("restaurants.status = ? AND restaurants.is_active = ? AND menu_items.available = ?",
				models.RestaurantApproved, true, true)
	}
	if f.RestaurantID != 0 {
		q = q.Where("menu_items.restaurant_id = ?", f.RestaurantID)
	}
	if f.Category != "" {
		q = q.Where("menu_items.category = ?", f.Category)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where("LOWER(menu_items.name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}

	var out []models.MenuItem
	if err := q.Order("menu_items.category, menu_items.name, menu_items.id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("catalog: list menu: %w", err)
	}
	return out, nil
}

func (r *CatalogRepository) forget(ctx context.Context, keys ...string) {
	_ = r.cache.Del(ctx, keys...)
}
