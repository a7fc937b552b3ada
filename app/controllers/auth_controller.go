package controllers

import (
	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/pkg/ctx"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register  POST /api/auth/register
func (c *AuthController) Register(x *ctx.Context) {
	var in services.RegisterInput
	if !x.BindJSON(&in) {
		return
	}

	sess, err := c.auth.Register(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(sess)
}

// Login  POST /api/auth/login
func (c *AuthController) Login(x *ctx.Context) {
	var in struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !x.BindJSON(&in) {
		return
	}

	sess, err := c.auth.Login(x.Context(), in.Email, in.Password)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(sess)
}
