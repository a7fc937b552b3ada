package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is a priced dish. Its price is the only source of truth for
// order line prices.
type MenuItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	RestaurantID uint            `gorm:"not null;index" json:"restaurant_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Category     string          `gorm:"size:100;index" json:"category"`
	Image        string          `gorm:"size:500" json:"image"`
	Available    bool            `gorm:"not null" json:"available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MenuItemPatch is the set of fields an owner may edit on a menu item.
type MenuItemPatch struct {
	Name        *string          `json:"name" validate:"nullable,min=1,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"nullable,gt=0"`
	Category    *string          `json:"category" validate:"nullable,max=100"`
	Image       *string          `json:"image" validate:"nullable,max=500"`
	Available   *bool            `json:"available"`
}

// Apply copies the set fields onto m and returns the column names touched.
func (p MenuItemPatch) Apply(m *MenuItem) []string {
	var cols []string
	if p.Name != nil {
		m.Name = *p.Name
		cols = append(cols, "name")
	}
	if p.Description != nil {
		m.Description = *p.Description
		cols = append(cols, "description")
	}
	if p.Price != nil {
		m.Price = *p.Price
		cols = append(cols, "price")
	}
	if p.Category != nil {
		m.Category = *p.Category
		cols = append(cols, "category")
	}
	if p.Image != nil {
		m.Image = *p.Image
		cols = append(cols, "image")
	}
	if p.Available != nil {
		m.Available = *p.Available
		cols = append(cols, "available")
	}
	return cols
}

// MenuFilter narrows ListMenu. Zero fields are ignored.
type MenuFilter struct {
	RestaurantID uint
	Category     string
	Query        string // case-insensitive substring of the name
	OnlyVisible  bool   // available items of approved, active restaurants
}
