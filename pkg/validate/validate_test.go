package validate_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/foodcourt/pkg/validate"
)

type registerInput struct {
	Name     string `json:"name"     validate:"required,min=2,max=20"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"nullable,in=customer|restaurant-owner"`
}

func TestStructValid(t *testing.T) {
	errs := validate.Struct(&registerInput{Name: "Asha", Email: "asha@example.com", Password: "longenough"})
	assert.False(t, validate.HasErrors(errs), errs)
}

func TestStructCollectsFirstFailurePerField(t *testing.T) {
	errs := validate.Struct(registerInput{Name: "A", Email: "nope", Password: "", Role: "administrator"})

	assert.Equal(t, "The name must be at least 2 characters.", errs["name"])
	assert.Equal(t, "The email must be a valid email address.", errs["email"])
	assert.Equal(t, "The password field is required.", errs["password"])
	assert.Equal(t, "The selected role is invalid.", errs["role"])
}

type patchInput struct {
	Name  *string          `json:"name"  validate:"nullable,min=1,max=10"`
	Price *decimal.Decimal `json:"price" validate:"nullable,gt=0"`
	Items []int            `json:"items" validate:"nullable,max=2"`
}

func TestPointerFieldsAreOptional(t *testing.T) {
	assert.Empty(t, validate.Struct(patchInput{}))

	long := "much too long a name"
	neg := decimal.NewFromInt(-3)
	errs := validate.Struct(patchInput{Name: &long, Price: &neg, Items: []int{1, 2, 3}})

	assert.Contains(t, errs, "name")
	assert.Equal(t, "The price must be greater than 0.", errs["price"])
	assert.Equal(t, "The items must not have more than 2 items.", errs["items"])
}

func TestNumericMin(t *testing.T) {
	type line struct {
		Quantity int `json:"quantity" validate:"min=1"`
	}
	assert.Contains(t, validate.Struct(line{Quantity: 0}), "quantity")
	assert.Empty(t, validate.Struct(line{Quantity: 3}))
}
