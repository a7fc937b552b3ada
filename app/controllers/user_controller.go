package controllers

import (
	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/pkg/ctx"
)

type UserController struct {
	auth *services.AuthService
}

func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{auth: auth}
}

// Me  GET /api/users/me
func (c *UserController) Me(x *ctx.Context) {
	user, err := c.auth.Profile(x.Context(), x.Principal())
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(user)
}

// Update  PUT /api/users/update
func (c *UserController) Update(x *ctx.Context) {
	var patch models.UserPatch
	if !x.BindJSON(&patch) {
		return
	}
	user, err := c.auth.UpdateProfile(x.Context(), x.Principal(), patch)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(user)
}

// Show  GET /api/users/{id}
func (c *UserController) Show(x *ctx.Context) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	user, err := c.auth.GetUser(x.Context(), x.Principal(), id)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(user)
}

// Destroy  DELETE /api/users/{id}
func (c *UserController) Destroy(x *ctx.Context) {
	id, ok := x.ParamUint("id")
	if !ok {
		return
	}
	if err := c.auth.DeleteUser(x.Context(), x.Principal(), id); err != nil {
		x.Fail(err)
		return
	}
	x.Success(map[string]uint{"deleted": id})
}

// Index  GET /api/users
func (c *UserController) Index(x *ctx.Context) {
	users, err := c.auth.ListUsers(x.Context(), x.Principal())
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(users)
}

// CreateAdmin  POST /api/admin/admins
func (c *UserController) CreateAdmin(x *ctx.Context) {
	var in services.AdminInput
	if !x.BindJSON(&in) {
		return
	}

	user, err := c.auth.CreateAdmin(x.Context(), x.Principal(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(user)
}
