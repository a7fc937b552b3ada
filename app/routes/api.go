package routes

import (
	"github.com/shashiranjanraj/foodcourt/app/controllers"
	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/pkg/ctx"
	"github.com/shashiranjanraj/foodcourt/pkg/middleware"
	"github.com/shashiranjanraj/foodcourt/pkg/rbac"
	"github.com/shashiranjanraj/foodcourt/pkg/router"
)

// Deps are the services the API routes dispatch to.
type Deps struct {
	Auth    *services.AuthService
	Catalog *services.CatalogService
	Orders  *services.OrderService
	Guard   *rbac.Guard
}

func RegisterAPI(r *router.Router, d Deps) {
	authC := controllers.NewAuthController(d.Auth)
	userC := controllers.NewUserController(d.Auth)
	restC := controllers.NewRestaurantController(d.Catalog)
	menuC := controllers.NewMenuController(d.Catalog)
	orderC := controllers.NewOrderController(d.Orders)

	need := func(a rbac.Action) router.Middleware { return rbac.Require(d.Guard, a) }

	api := r.Group("/api")

	// public
	api.Post("/auth/register", "auth.register", ctx.Wrap(authC.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authC.Login))
	api.Get("/restaurants", "restaurants.index", ctx.Wrap(restC.Index))
	api.Get("/restaurants/{id}", "restaurants.show", ctx.Wrap(restC.Show))
	api.Get("/menu", "menu.index", ctx.Wrap(menuC.Index))

	p := api.Group("", middleware.Authenticate(d.Auth))

	// accounts
	p.Get("/users/me", "users.me", ctx.Wrap(userC.Me))
	p.Put("/users/update", "users.update", ctx.Wrap(userC.Update), need(rbac.ManageAccount))
	p.Get("/users", "users.index", ctx.Wrap(userC.Index), need(rbac.ListUsers))
	p.Get("/users/{id}", "users.show", ctx.Wrap(userC.Show), need(rbac.ViewUser))
	p.Delete("/users/{id}", "users.destroy", ctx.Wrap(userC.Destroy), need(rbac.ManageAccount))
	p.Post("/admin/admins", "admin.admins.store", ctx.Wrap(userC.CreateAdmin), need(rbac.CreateAdmin))

	// restaurants
	p.Get("/admin/restaurants", "admin.restaurants.index", ctx.Wrap(restC.All), need(rbac.ReviewRestaurant))
	p.Get("/restaurants/mine", "restaurants.mine", ctx.Wrap(restC.Mine), need(rbac.UpdateRestaurant))
	p.Post("/restaurants", "restaurants.store", ctx.Wrap(restC.Store), need(rbac.CreateRestaurant))
	p.Put("/restaurants/{id}", "restaurants.update", ctx.Wrap(restC.Update), need(rbac.UpdateRestaurant))
	p.Put("/restaurants/{id}/approve", "restaurants.approve", ctx.Wrap(restC.Approve), need(rbac.ReviewRestaurant))
	p.Put("/restaurants/{id}/reject", "restaurants.reject", ctx.Wrap(restC.Reject), need(rbac.ReviewRestaurant))

	// menu
	p.Get("/menu/mine", "menu.mine", ctx.Wrap(menuC.Mine), need(rbac.ManageMenu))
	p.Post("/menu", "menu.store", ctx.Wrap(menuC.Store), need(rbac.ManageMenu))
	p.Put("/menu/{id}", "menu.update", ctx.Wrap(menuC.Update), need(rbac.ManageMenu))
	p.Delete("/menu/{id}", "menu.destroy", ctx.Wrap(menuC.Destroy), need(rbac.ManageMenu))

	// orders
	p.Post("/orders", "orders.store", ctx.Wrap(orderC.Store), need(rbac.PlaceOrder))
	p.Get("/orders", "orders.index", ctx.Wrap(orderC.Index), need(rbac.ListAllOrders))
	p.Get("/orders/mine", "orders.mine", ctx.Wrap(orderC.Mine), need(rbac.ViewOwnOrders))
	p.Get("/orders/restaurant", "orders.restaurant", ctx.Wrap(orderC.Restaurant), need(rbac.ViewRestaurantOrders))
	p.Get("/orders/{id}", "orders.show", ctx.Wrap(orderC.Show), need(rbac.ViewOrder))
	p.Put("/orders/{id}/status", "orders.status", ctx.Wrap(orderC.UpdateStatus), need(rbac.SetOrderStatus))
}
