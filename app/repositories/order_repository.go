package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
)

// OrderRepository persists orders and their lines.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position")
	})
}

// Create writes the order row and all of its lines in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := o.Lines
		o.Lines = nil
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("orders: create: %w", err)
		}
		for i := range lines {
			lines[i].OrderID = o.ID
			lines[i].Position = i
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("orders: create lines: %w", err)
			}
		}
		o.Lines = lines
		return nil
	})
}

// FindByID returns the order with its lines in placement order.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := withLines(r.db.WithContext(ctx)).First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("orders: find %d: %w", id, err)
	}
	return &o, nil
}

// UpdateStatus sets the status only if it is still from. It reports whether
// the row was changed, so two racing transitions cannot both succeed.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, from, to models.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, fmt.Errorf("orders: update status %d: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// List returns orders matching f, newest first.
func (r *OrderRepository) List(ctx context.Context, f models.OrderFilter) ([]models.Order, error) {
	q := withLines(r.db.WithContext(ctx))
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.RestaurantID != 0 {
		q = q.Where("restaurant_id = ?", f.RestaurantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var out []models.Order
	if err := q.Order("created_at desc, id desc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	return out, nil
}
