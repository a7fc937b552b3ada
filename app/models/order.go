package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable priced snapshot. Only Status changes after creation.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CustomerID      uint            `gorm:"not null;index" json:"customer_id"`
	RestaurantID    uint            `gorm:"not null;index" json:"restaurant_id"`
	Lines           []OrderLine     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	ItemsSubtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"items_subtotal"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"delivery_fee"`
	GrandTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"grand_total"`
	Status          OrderStatus     `gorm:"size:32;not null;index" json:"status"`
	ShippingAddress string          `gorm:"size:500" json:"shipping_address"`
	PaymentMethod   string          `gorm:"size:50" json:"payment_method"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderLine is one priced line. Name and UnitPrice are copied from the menu
// item when the order is placed.
type OrderLine struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	OrderID    uint            `gorm:"not null;index" json:"-"`
	Position   int             `gorm:"not null" json:"-"`
	MenuItemID uint            `gorm:"not null" json:"menu_item_id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"line_total"`
}

// OrderFilter scopes order reads. At least one of CustomerID or RestaurantID
// is set for every non-administrator query.
type OrderFilter struct {
	CustomerID   uint
	RestaurantID uint
	Status       OrderStatus
}
