package services

import (
	"context"
	"sort"
	"sync"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
)

// fakeCatalog is an in-memory catalog for order tests.
type fakeCatalog struct {
	restaurants map[uint]models.Restaurant
	items       map[uint]models.MenuItem
	owners      map[uint]uint // owner user id → restaurant id
}

func (c *fakeCatalog) LoadRestaurant(_ context.Context, id uint) (*models.Restaurant, error) {
	r, ok := c.restaurants[id]
	if !ok {
		return nil, apperr.NotFound("restaurant", id)
	}
	return &r, nil
}

func (c *fakeCatalog) GetMenuItems(_ context.Context, ids []uint) (map[uint]models.MenuItem, error) {
	out := map[uint]models.MenuItem{}
	for _, id := range ids {
		it, ok := c.items[id]
		if !ok {
			return nil, apperr.NotFound("menu item", id)
		}
		out[id] = it
	}
	return out, nil
}

func (c *fakeCatalog) OwnedRestaurantID(_ context.Context, ownerID uint) (uint, error) {
	id, ok := c.owners[ownerID]
	if !ok {
		return 0, apperr.NotFound("restaurant", "owner")
	}
	return id, nil
}

// fakeOrders is an in-memory order store.
type fakeOrders struct {
	mu     sync.Mutex
	orders map[uint]models.Order
	nextID uint

	// beforeUpdate runs inside UpdateStatus before the compare, to
	// simulate a concurrent writer.
	beforeUpdate func(o *models.Order)
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: map[uint]models.Order{}}
}

func (s *fakeOrders) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = s.nextID
	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
		o.Lines[i].Position = i
	}
	cp := *o
	cp.Lines = append([]models.OrderLine(nil), o.Lines...)
	s.orders[o.ID] = cp
	return nil
}

func (s *fakeOrders) FindByID(_ context.Context, id uint) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	return &o, nil
}

func (s *fakeOrders) UpdateStatus(_ context.Context, id uint, from, to models.OrderStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return false, nil
	}
	if s.beforeUpdate != nil {
		s.beforeUpdate(&o)
		s.orders[id] = o
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	s.orders[id] = o
	return true, nil
}

func (s *fakeOrders) List(_ context.Context, f models.OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if f.CustomerID != 0 && o.CustomerID != f.CustomerID {
			continue
		}
		if f.RestaurantID != 0 && o.RestaurantID != f.RestaurantID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeOrders) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
