package controllers

import (
	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/pkg/ctx"
)

type RestaurantController struct {
	catalog *services.CatalogService
}

func NewRestaurantController(catalog *services.CatalogService) *RestaurantController {
	return &RestaurantController{catalog: catalog}
}

// Index  GET /api/restaurants
func (c *RestaurantController) Index(x *ctx.Context) {
	list, err := c.catalog.ListRestaurants(x.Context())
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(list)
}

// All  GET /api/admin/restaurants
func (c *RestaurantController) All(x *ctx.Context) {
	list, err := c.catalog.ListAllRestaurants(x.Context(), x.Principal())
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(list)
}

// Show  GET /api/restaurants/{id}
func (c *RestaurantController) Show(x *ctx.Context) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	rest, err := c.catalog.GetRestaurant(x.Context(), id)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(rest)
}

// Mine  GET /api/restaurants/mine
func (c *RestaurantController) Mine(x *ctx.Context) {
	rest, err := c.catalog.MyRestaurant(x.Context(), x.Principal())
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(rest)
}

// Store  POST /api/restaurants
func (c *RestaurantController) Store(x *ctx.Context) {
	var in services.RestaurantInput
	if !x.BindJSON(&in) {
		return
	}
	rest, err := c.catalog.CreateRestaurant(x.Context(), x.Principal(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(rest)
}

// Update  PUT /api/restaurants/{id}
func (c *RestaurantController) Update(x *ctx.Context) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	var patch models.RestaurantPatch
	if !x.BindJSON(&patch) {
		return
	}
	rest, err := c.catalog.UpdateRestaurant(x.Context(), x.Principal(), id, patch)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(rest)
}

// Approve  PUT /api/restaurants/{id}/approve
func (c *RestaurantController) Approve(x *ctx.Context) { c.review(x, true) }

// Reject  PUT /api/restaurants/{id}/reject
func (c *RestaurantController) Reject(x *ctx.Context) { c.review(x, false) }

func (c *RestaurantController) review(x *ctx.Context, approve bool) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	rest, err := c.catalog.ReviewRestaurant(x.Context(), x.Principal(), id, approve)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(rest)
}
