package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/cache"
)

// UserRepository handles database operations for User. The cache is only
// touched to drop catalog entries of deleted owners; store may be nil.
type UserRepository struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewUserRepository(db *gorm.DB, store *cache.Store) *UserRepository {
	return &UserRepository{db: db, cache: store}
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("users: find %d: %w", id, err)
	}
	return &user, nil
}

// FindByEmail looks up a user by their (case-insensitive) email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by email: %w", err)
	}
	return &user, nil
}

// Create persists user and, when restaurant is non-nil, the restaurant it
// owns, in one transaction. A taken email is an InvalidRequest.
func (r *UserRepository) Create(ctx context.Context, user *models.User, restaurant *models.Restaurant) error {
	user.Email = normalizeEmail(user.Email)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
			return fmt.Errorf("users: check email: %w", err)
		}
		if taken > 0 {
			return apperr.InvalidFor("user", user.Email, "email is already registered")
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("users: create: %w", err)
		}

		if restaurant == nil {
			return nil
		}
		restaurant.OwnerID = user.ID
		if err := tx.Create(restaurant).Error; err != nil {
			return fmt.Errorf("users: provision restaurant: %w", err)
		}
		return nil
	})
}

// All returns every user, oldest first.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return users, nil
}

// Update saves the given columns of user. Changing the email to one held by
// another account is an InvalidRequest.
func (r *UserRepository) Update(ctx context.Context, user *models.User, cols []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range cols {
			if c != "email" {
				continue
			}
			user.Email = normalizeEmail(user.Email)
			var taken int64
			err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", user.Email, user.ID).Count(&taken).Error
			if err != nil {
				return fmt.Errorf("users: check email: %w", err)
			}
			if taken > 0 {
				return apperr.InvalidFor("user", user.Email, "email is already registered")
			}
		}

		if err := tx.Model(user).Select(append(cols, "updated_at")).Updates(user).Error; err != nil {
			return fmt.Errorf("users: update %d: %w", user.ID, err)
		}
		return nil
	})
}

// Delete removes the user together with any restaurant they own and its
// menu. Orders are kept; they carry their own price snapshot.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	var restaurantIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Restaurant{}).Where("owner_id = ?", id).Pluck("id", &restaurantIDs).Error; err != nil {
			return fmt.Errorf("users: find restaurants of %d: %w", id, err)
		}
		if len(restaurantIDs) > 0 {
			if err := tx.Where("restaurant_id IN ?", restaurantIDs).Delete(&models.MenuItem{}).Error; err != nil {
				return fmt.Errorf("users: delete menu of %d: %w", id, err)
			}
			if err := tx.Where("id IN ?", restaurantIDs).Delete(&models.Restaurant{}).Error; err != nil {
				return fmt.Errorf("users: delete restaurants of %d: %w", id, err)
			}
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return fmt.Errorf("users: delete %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("user", id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	keys := []string{ownerKey(id)}
	for _, rid := range restaurantIDs {
		keys = append(keys, restaurantKey(rid))
	}
	_ = r.cache.Del(ctx, keys...)
	return nil
}

// CountByRole returns how many accounts hold role.
func (r *UserRepository) CountByRole(ctx context.Context, role auth.Role) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("users: count %s: %w", role, err)
	}
	return n, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
