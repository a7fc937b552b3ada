package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/logger"
	"github.com/shashiranjanraj/foodcourt/pkg/rbac"
)

// CatalogStore persists restaurants and menu items.
type CatalogStore interface {
	OrderCatalog

	GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
	GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
	CreateRestaurant(ctx context.Context, rest *models.Restaurant) error
	UpdateRestaurant(ctx context.Context, rest *models.Restaurant, cols []string) error
	SetRestaurantStatus(ctx context.Context, id uint, from, to models.RestaurantStatus) (bool, error)
	ListRestaurants(ctx context.Context, onlyOpen bool) ([]models.Restaurant, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem, cols []string) error
	DeleteMenuItem(ctx context.Context, id uint) error
	ListMenu(ctx context.Context, f models.MenuFilter) ([]models.MenuItem, error)
}

// UserLookup resolves accounts by id.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// RestaurantInput creates a restaurant. OwnerID is honoured only for
// administrators; owners always create their own.
type RestaurantInput struct {
	OwnerID      uint     `json:"owner_id"`
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description"`
	Address      string   `json:"address" validate:"nullable,max=500"`
	Cuisine      []string `json:"cuisine"`
	OpeningHours string   `json:"opening_hours" validate:"nullable,max=255"`
	Phone        string   `json:"phone" validate:"nullable,max=50"`
	Image        string   `json:"image" validate:"nullable,max=500"`
}

// MenuItemInput creates a menu item. RestaurantID is required for
// administrators and otherwise defaults to the owner's restaurant.
type MenuItemInput struct {
	RestaurantID uint            `json:"restaurant_id"`
	Name         string          `json:"name" validate:"required,max=255"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price" validate:"required,gt=0"`
	Category     string          `json:"category" validate:"nullable,max=100"`
	Image        string          `json:"image" validate:"nullable,max=500"`
	Available    *bool           `json:"available"`
}

// CatalogService manages restaurants and menus.
type CatalogService struct {
	catalog CatalogStore
	users   UserLookup
	guard   *rbac.Guard
}

func NewCatalogService(catalog CatalogStore, users UserLookup, guard *rbac.Guard) *CatalogService {
	return &CatalogService{catalog: catalog, users: users, guard: guard}
}

// ─── Restaurants ──────────────────────────────────────────────────────────────

// CreateRestaurant registers a restaurant. Owner-created restaurants start
// pending review; administrator-created ones are approved immediately.
func (s *CatalogService) CreateRestaurant(ctx context.Context, p auth.Principal, in RestaurantInput) (*models.Restaurant, error) {
	if err := s.guard.Authorize(ctx, p, rbac.CreateRestaurant, rbac.Resource{}); err != nil {
		return nil, err
	}

	rest := &models.Restaurant{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Address:      in.Address,
		Cuisine:      in.Cuisine,
		OpeningHours: in.OpeningHours,
		Phone:        in.Phone,
		Image:        in.Image,
		Status:       models.RestaurantPending,
		IsActive:     true,
	}
	if rest.Name == "" {
		return nil, apperr.Invalid("restaurant name is required")
	}

	switch p.Role {
	case auth.RoleAdministrator:
		if in.OwnerID == 0 {
			return nil, apperr.Invalid("owner_id is required")
		}
		owner, err := s.users.FindByID(ctx, in.OwnerID)
		if err != nil {
			return nil, err
		}
		if owner.Role != auth.RoleRestaurantOwner {
			return nil, apperr.InvalidFor("user", owner.ID, "user %d is not a restaurant owner", owner.ID)
		}
		rest.OwnerID = owner.ID
		rest.Status = models.RestaurantApproved
	default:
		rest.OwnerID = p.UserID
	}

	if err := s.catalog.CreateRestaurant(ctx, rest); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("restaurant created", "restaurant_id", rest.ID, "owner_id", rest.OwnerID)
	return rest, nil
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id uint) (*models.Restaurant, error) {
	return s.catalog.GetRestaurant(ctx, id)
}

// ListRestaurants returns the restaurants customers can order from.
func (s *CatalogService) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.catalog.ListRestaurants(ctx, true)
}

// ListAllRestaurants includes pending, rejected and inactive restaurants.
// Administrators only.
func (s *CatalogService) ListAllRestaurants(ctx context.Context, p auth.Principal) ([]models.Restaurant, error) {
	if err := s.guard.CheckRole(p, rbac.ReviewRestaurant); err != nil {
		return nil, err
	}
	return s.catalog.ListRestaurants(ctx, false)
}

// MyRestaurant returns the restaurant owned by p.
func (s *CatalogService) MyRestaurant(ctx context.Context, p auth.Principal) (*models.Restaurant, error) {
	id, err := s.guard.OwnedRestaurant(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.catalog.GetRestaurant(ctx, id)
}

// UpdateRestaurant applies the allow-listed profile fields of patch.
func (s *CatalogService) UpdateRestaurant(ctx context.Context, p auth.Principal, id uint, patch models.RestaurantPatch) (*models.Restaurant, error) {
	if err := s.guard.Authorize(ctx, p, rbac.UpdateRestaurant, rbac.Resource{RestaurantID: id}); err != nil {
		return nil, err
	}

	rest, err := s.catalog.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Invalid("restaurant name cannot be empty")
	}

	cols := patch.Apply(rest)
	if err := s.catalog.UpdateRestaurant(ctx, rest, cols); err != nil {
		return nil, err
	}
	return rest, nil
}

// ReviewRestaurant approves or rejects a pending restaurant.
func (s *CatalogService) ReviewRestaurant(ctx context.Context, p auth.Principal, id uint, approve bool) (*models.Restaurant, error) {
	if err := s.guard.CheckRole(p, rbac.ReviewRestaurant); err != nil {
		return nil, err
	}

	rest, err := s.catalog.GetRestaurant(ctx, id)
	if err != nil {
		return nil, err
	}

	to := models.RestaurantRejected
	if approve {
		to = models.RestaurantApproved
	}
	if rest.Status != models.RestaurantPending {
		return nil, apperr.InvalidTransition("restaurant", id, string(rest.Status), string(to))
	}

	ok, err := s.catalog.SetRestaurantStatus(ctx, id, models.RestaurantPending, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidTransition("restaurant", id, string(models.RestaurantPending), string(to))
	}

	logger.WithCtx(ctx).Info("restaurant reviewed", "restaurant_id", id, "status", string(to), "by", p.UserID)
	return s.catalog.GetRestaurant(ctx, id)
}

// ─── Menu ─────────────────────────────────────────────────────────────────────

// CreateMenuItem adds an item to the owner's restaurant, or for an
// administrator to the named restaurant.
func (s *CatalogService) CreateMenuItem(ctx context.Context, p auth.Principal, in MenuItemInput) (*models.MenuItem, error) {
	if err := s.guard.CheckRole(p, rbac.ManageMenu); err != nil {
		return nil, err
	}

	restaurantID := in.RestaurantID
	if restaurantID == 0 {
		if p.Role != auth.RoleRestaurantOwner {
			return nil, apperr.Invalid("restaurant_id is required")
		}
		owned, err := s.guard.OwnedRestaurant(ctx, p)
		if err != nil {
			return nil, err
		}
		restaurantID = owned
	}
	if err := s.guard.Authorize(ctx, p, rbac.ManageMenu, rbac.Resource{RestaurantID: restaurantID}); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Invalid("menu item name is required")
	}
	if err := models.CheckPrice(in.Price); err != nil {
		return nil, err
	}

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Category:     in.Category,
		Image:        in.Image,
		Available:    in.Available == nil || *in.Available,
	}
	if err := s.catalog.CreateMenuItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItem applies the allow-listed fields of patch. Orders already
// placed keep the price they were placed at.
func (s *CatalogService) UpdateMenuItem(ctx context.Context, p auth.Principal, id uint, patch models.MenuItemPatch) (*models.MenuItem, error) {
	item, err := s.ownedMenuItem(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if patch.Price != nil {
		if err := models.CheckPrice(*patch.Price); err != nil {
			return nil, err
		}
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperr.Invalid("menu item name cannot be empty")
	}

	cols := patch.Apply(item)
	if err := s.catalog.UpdateMenuItem(ctx, item, cols); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) DeleteMenuItem(ctx context.Context, p auth.Principal, id uint) error {
	item, err := s.ownedMenuItem(ctx, p, id)
	if err != nil {
		return err
	}
	return s.catalog.DeleteMenuItem(ctx, item.ID)
}

// ListMenu is the public menu: available items of open restaurants.
func (s *CatalogService) ListMenu(ctx context.Context, f models.MenuFilter) ([]models.MenuItem, error) {
	f.OnlyVisible = true
	return s.catalog.ListMenu(ctx, f)
}

// MyMenu returns every item of the owner's restaurant, unavailable ones included.
func (s *CatalogService) MyMenu(ctx context.Context, p auth.Principal) ([]models.MenuItem, error) {
	id, err := s.guard.OwnedRestaurant(ctx, p)
	if err != nil {
		return nil, err
	}
	return s.catalog.ListMenu(ctx, models.MenuFilter{RestaurantID: id})
}

func (s *CatalogService) ownedMenuItem(ctx context.Context, p auth.Principal, id uint) (*models.MenuItem, error) {
	if err := s.guard.CheckRole(p, rbac.ManageMenu); err != nil {
		return nil, err
	}
	item, err := s.catalog.GetMenuItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, p, rbac.ManageMenu, rbac.Resource{RestaurantID: item.RestaurantID}); err != nil {
		return nil, err
	}
	return item, nil
}
