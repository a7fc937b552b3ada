package controllers

import (
	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/pkg/ctx"
)

type MenuController struct {
	catalog *services.CatalogService
}

func NewMenuController(catalog *services.CatalogService) *MenuController {
	return &MenuController{catalog: catalog}
}

// Index  GET /api/menu?restaurant_id=&category=&q=
func (c *MenuController) Index(x *ctx.Context) {
	restaurantID, ok := x.QueryUint("restaurant_id")
	if !ok {
		return
	}
	items, err := c.catalog.ListMenu(x.Context(), models.MenuFilter{
		RestaurantID: restaurantID,
		Category:     x.Query("category"),
		Query:        x.Query("q"),
	})
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(items)
}

// Mine  GET /api/menu/mine
func (c *MenuController) Mine(x *ctx.Context) {
	items, err := c.catalog.MyMenu(x.Context(), x.Principal())
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(items)
}

// Store  POST /api/menu
func (c *MenuController) Store(x *ctx.Context) {
	var in services.MenuItemInput
	if !x.BindJSON(&in) {
		return
	}
	item, err := c.catalog.CreateMenuItem(x.Context(), x.Principal(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(item)
}

// Update  PUT /api/menu/{id}
func (c *MenuController) Update(x *ctx.Context) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	var patch models.MenuItemPatch
	if !x.BindJSON(&patch) {
		return
	}
	item, err := c.catalog.UpdateMenuItem(x.Context(), x.Principal(), id, patch)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(item)
}

// Destroy  DELETE /api/menu/{id}
func (c *MenuController) Destroy(x *ctx.Context) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	if err := c.catalog.DeleteMenuItem(x.Context(), x.Principal(), id); err != nil {
		x.Fail(err)
		return
	}
	x.Success(map[string]uint{"deleted": id})
}
