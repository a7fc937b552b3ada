package models

import "time"

type RestaurantStatus string

const (
	RestaurantPending  RestaurantStatus = "pending"
	RestaurantApproved RestaurantStatus = "approved"
	RestaurantRejected RestaurantStatus = "rejected"
)

// Restaurant is a tenant. Each restaurant-owner owns at most one.
type Restaurant struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	OwnerID      uint             `gorm:"uniqueIndex;not null" json:"owner_id"`
	Name         string           `gorm:"size:255;not null" json:"name"`
	Description  string           `gorm:"type:text" json:"description"`
	Address      string           `gorm:"size:500" json:"address"`
	Cuisine      []string         `gorm:"serializer:json" json:"cuisine"`
	OpeningHours string           `gorm:"size:255" json:"opening_hours"`
	Phone        string           `gorm:"size:50" json:"phone"`
	Image        string           `gorm:"size:500" json:"image"`
	Status       RestaurantStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	IsActive     bool             `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// AcceptsOrders reports whether customers may order from the restaurant.
func (r Restaurant) AcceptsOrders() bool {
	return r.Status == RestaurantApproved && r.IsActive
}

// RestaurantPatch is the set of profile fields an owner may edit. Nil means
// unchanged. Owner and Status are deliberately absent.
type RestaurantPatch struct {
	Name         *string   `json:"name" validate:"nullable,min=1,max=255"`
	Description  *string   `json:"description"`
	Address      *string   `json:"address" validate:"nullable,max=500"`
	Cuisine      *[]string `json:"cuisine"`
	OpeningHours *string   `json:"opening_hours" validate:"nullable,max=255"`
	Phone        *string   `json:"phone" validate:"nullable,max=50"`
	Image        *string   `json:"image" validate:"nullable,max=500"`
	IsActive     *bool     `json:"is_active"`
}

// Apply copies the set fields onto r and returns the column names touched.
func (p RestaurantPatch) Apply(r *Restaurant) []string {
	var cols []string
	if p.Name != nil {
		r.Name = *p.Name
		cols = append(cols, "name")
	}
	if p.Description != nil {
		r.Description = *p.Description
		cols = append(cols, "description")
	}
	if p.Address != nil {
		r.Address = *p.Address
		cols = append(cols, "address")
	}
	if p.Cuisine != nil {
		r.Cuisine = *p.Cuisine
		cols = append(cols, "cuisine")
	}
	if p.OpeningHours != nil {
		r.OpeningHours = *p.OpeningHours
		cols = append(cols, "opening_hours")
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
		cols = append(cols, "phone")
	}
	if p.Image != nil {
		r.Image = *p.Image
		cols = append(cols, "image")
	}
	if p.IsActive != nil {
		r.IsActive = *p.IsActive
		cols = append(cols, "is_active")
	}
	return cols
}
