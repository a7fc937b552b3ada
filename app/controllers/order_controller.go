package controllers

import (
	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Store  POST /api/orders
func (c *OrderController) Store(x *ctx.Context) {
	var in services.PlaceOrderInput
	if !x.BindJSON(&in) {
		return
	}
	order, err := c.orders.PlaceOrder(x.Context(), x.Principal(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(order)
}

// Mine  GET /api/orders/mine
func (c *OrderController) Mine(x *ctx.Context) {
	list, err := c.orders.ListOwnOrders(x.Context(), x.Principal())
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(list)
}

// Restaurant  GET /api/orders/restaurant?restaurant_id=
func (c *OrderController) Restaurant(x *ctx.Context) {
	restaurantID, ok := x.QueryUint("restaurant_id")
	if !ok {
		return
	}
	list, err := c.orders.ListRestaurantOrders(x.Context(), x.Principal(), restaurantID)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(list)
}

// Index  GET /api/orders?status=
func (c *OrderController) Index(x *ctx.Context) {
	list, err := c.orders.ListAllOrders(x.Context(), x.Principal(), x.Query("status"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(list)
}

// Show  GET /api/orders/{id}
func (c *OrderController) Show(x *ctx.Context) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	order, err := c.orders.GetOrder(x.Context(), x.Principal(), id)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(order)
}

// UpdateStatus  PUT /api/orders/{id}/status
func (c *OrderController) UpdateStatus(x *ctx.Context) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	var in struct {
		Status string `json:"status" validate:"required"`
	}
	if !x.BindJSON(&in) {
		return
	}
	order, err := c.orders.SetStatus(x.Context(), x.Principal(), id, in.Status)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(order)
}
