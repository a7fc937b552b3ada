package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/event"
	"github.com/shashiranjanraj/foodcourt/pkg/rbac"
)

// OrderCatalog is the read-only catalog view used to price orders.
type OrderCatalog interface {
	LoadRestaurant(ctx context.Context, id uint) (*models.Restaurant, error)
	GetMenuItems(ctx context.Context, ids []uint) (map[uint]models.MenuItem, error)
}

// OrderStore persists orders.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uint, from, to models.OrderStatus) (bool, error)
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, error)
}

// OrderItemInput is one requested line. Price is whatever the client
// believes the item costs; it is accepted and ignored.
type OrderItemInput struct {
	MenuItemID uint             `json:"menu_item_id"`
	Quantity   int              `json:"quantity"`
	Price      *decimal.Decimal `json:"price,omitempty"`
}

type PlaceOrderInput struct {
	RestaurantID    uint             `json:"restaurant_id" validate:"required"`
	Items           []OrderItemInput `json:"items"`
	ShippingAddress string           `json:"shipping_address" validate:"nullable,max=500"`
	PaymentMethod   string           `json:"payment_method" validate:"nullable,max=50"`
}

// OrderService places orders, drives their lifecycle and serves reads.
type OrderService struct {
	orders  OrderStore
	catalog OrderCatalog
	guard   *rbac.Guard
	events  *event.Dispatcher
}

// NewOrderService wires the service. events may be nil.
func NewOrderService(orders OrderStore, catalog OrderCatalog, guard *rbac.Guard, events *event.Dispatcher) *OrderService {
	return &OrderService{orders: orders, catalog: catalog, guard: guard, events: events}
}

// PlaceOrder prices the requested items from the catalog and stores a
// pending order. Nothing is written unless every check passes.
func (s *OrderService) PlaceOrder(ctx context.Context, p auth.Principal, in PlaceOrderInput) (*models.Order, error) {
	if err := s.guard.Authorize(ctx, p, rbac.PlaceOrder, rbac.Resource{CustomerID: p.UserID}); err != nil {
		return nil, err
	}

	if len(in.Items) == 0 {
		return nil, apperr.Invalid("an order must contain at least one item")
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, apperr.InvalidFor("menu item", it.MenuItemID,
				"quantity for menu item %d must be a positive integer", it.MenuItemID)
		}
	}
	if in.RestaurantID == 0 {
		return nil, apperr.Invalid("restaurant_id is required")
	}

	rest, err := s.catalog.LoadRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !rest.AcceptsOrders() {
		return nil, apperr.InvalidFor("restaurant", rest.ID, "restaurant %d is not accepting orders", rest.ID)
	}

	ids := make([]uint, len(in.Items))
	for i, it := range in.Items {
		ids[i] = it.MenuItemID
	}
	menu, err := s.catalog.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderLine, 0, len(in.Items))
	for _, it := range in.Items {
		item := menu[it.MenuItemID]
		if item.RestaurantID != rest.ID {
			return nil, apperr.InvalidFor("menu item", item.ID,
				"menu item %d does not belong to restaurant %d", item.ID, rest.ID)
		}
		if !item.Available {
			return nil, apperr.InvalidFor("menu item", item.ID, "menu item %d is not available", item.ID)
		}
		lines = append(lines, models.OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   it.Quantity,
			UnitPrice:  item.Price,
		})
	}

	totals := models.PriceLines(lines)
	order := &models.Order{
		CustomerID:      p.UserID,
		RestaurantID:    rest.ID,
		Lines:           lines,
		ItemsSubtotal:   totals.ItemsSubtotal,
		TaxAmount:       totals.TaxAmount,
		DeliveryFee:     totals.DeliveryFee,
		GrandTotal:      totals.GrandTotal,
		Status:          models.StatusPending,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.events.Fire(EventOrderPlaced, OrderPlaced{Order: order})
	return order, nil
}

// SetStatus moves an order along its lifecycle on behalf of the owning
// restaurant or an administrator.
func (s *OrderService) SetStatus(ctx context.Context, p auth.Principal, orderID uint, target string) (*models.Order, error) {
	if err := s.guard.CheckRole(p, rbac.SetOrderStatus); err != nil {
		return nil, err
	}

	to, err := models.ParseOrderStatus(target)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Authorize(ctx, p, rbac.SetOrderStatus, rbac.Resource{RestaurantID: order.RestaurantID}); err != nil {
		return nil, err
	}

	from := order.Status
	if !models.CanTransition(from, to) {
		return nil, apperr.InvalidTransition("order", order.ID, from.String(), to.String())
	}

	ok, err := s.orders.UpdateStatus(ctx, order.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Another writer moved the order first.
		current, err := s.orders.FindByID(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		return nil, apperr.InvalidTransition("order", order.ID, current.Status.String(), to.String())
	}

	updated, err := s.orders.FindByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	s.events.Fire(EventOrderStatusChanged, OrderStatusChanged{
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		From:         from,
		To:           to,
		By:           p,
	})
	return updated, nil
}

// ListOwnOrders returns the customer's orders, newest first.
func (s *OrderService) ListOwnOrders(ctx context.Context, p auth.Principal) ([]models.Order, error) {
	if err := s.guard.Authorize(ctx, p, rbac.ViewOwnOrders, rbac.Resource{CustomerID: p.UserID}); err != nil {
		return nil, err
	}
	return s.orders.List(ctx, models.OrderFilter{CustomerID: p.UserID})
}

// ListRestaurantOrders returns one restaurant's orders. Owners always see
// their own restaurant; naming another one is Forbidden. Administrators
// must name the restaurant.
func (s *OrderService) ListRestaurantOrders(ctx context.Context, p auth.Principal, restaurantID uint) ([]models.Order, error) {
	if err := s.guard.CheckRole(p, rbac.ViewRestaurantOrders); err != nil {
		return nil, err
	}

	switch p.Role {
	case auth.RoleRestaurantOwner:
		if restaurantID == 0 {
			owned, err := s.guard.OwnedRestaurant(ctx, p)
			if err != nil {
				return nil, err
			}
			restaurantID = owned
		}
	case auth.RoleAdministrator:
		if restaurantID == 0 {
			return nil, apperr.Invalid("restaurant_id is required")
		}
	}

	if err := s.guard.Authorize(ctx, p, rbac.ViewRestaurantOrders, rbac.Resource{RestaurantID: restaurantID}); err != nil {
		return nil, err
	}
	return s.orders.List(ctx, models.OrderFilter{RestaurantID: restaurantID})
}

// ListAllOrders returns every order, optionally filtered by status.
// Administrators only.
func (s *OrderService) ListAllOrders(ctx context.Context, p auth.Principal, status string) ([]models.Order, error) {
	if err := s.guard.CheckRole(p, rbac.ListAllOrders); err != nil {
		return nil, err
	}

	var f models.OrderFilter
	if status != "" {
		st, err := models.ParseOrderStatus(status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	return s.orders.List(ctx, f)
}

// GetOrder returns a single order to its customer, the owning restaurant
// or an administrator.
func (s *OrderService) GetOrder(ctx context.Context, p auth.Principal, id uint) (*models.Order, error) {
	if err := s.guard.CheckRole(p, rbac.ViewOrder); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := rbac.Resource{RestaurantID: order.RestaurantID, CustomerID: order.CustomerID}
	if err := s.guard.Authorize(ctx, p, rbac.ViewOrder, res); err != nil {
		return nil, err
	}
	return order, nil
}
