package services

import (
	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/event"
	"github.com/shashiranjanraj/foodcourt/pkg/logger"
	"github.com/shashiranjanraj/foodcourt/pkg/metrics"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderPlaced is the payload of EventOrderPlaced.
type OrderPlaced struct {
	Order *models.Order
}

// OrderStatusChanged is the payload of EventOrderStatusChanged.
type OrderStatusChanged struct {
	OrderID      uint
	RestaurantID uint
	From, To     models.OrderStatus
	By           auth.Principal
}

// RegisterListeners attaches the logging and metrics listeners for order events.
func RegisterListeners(d *event.Dispatcher) {
	d.Listen(EventOrderPlaced, func(payload any) {
		e, ok := payload.(OrderPlaced)
		if !ok {
			return
		}
		metrics.OrdersPlaced.Inc()
		metrics.OrderValue.Observe(e.Order.GrandTotal.InexactFloat64())
		logger.Info("order placed",
			"order_id", e.Order.ID,
			"customer_id", e.Order.CustomerID,
			"restaurant_id", e.Order.RestaurantID,
			"grand_total", e.Order.GrandTotal.String(),
			"lines", len(e.Order.Lines),
		)
	})

	d.Listen(EventOrderStatusChanged, func(payload any) {
		e, ok := payload.(OrderStatusChanged)
		if !ok {
			return
		}
		metrics.OrderTransitions.WithLabelValues(e.From.String(), e.To.String()).Inc()
		logger.Info("order status changed",
			"order_id", e.OrderID,
			"restaurant_id", e.RestaurantID,
			"from", e.From.String(),
			"to", e.To.String(),
			"by", e.By.UserID,
		)
	})
}
