package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/bind"
)

type line struct {
	MenuItemID uint `json:"menu_item_id" validate:"required"`
	Quantity   int  `json:"quantity"     validate:"min=1"`
}

func TestJSONRejectsFractionalQuantity(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"menu_item_id":1,"quantity":1.5}`))

	var dest line
	errs, err := bind.JSON(req, &dest)
	require.Error(t, err)
	assert.Nil(t, errs)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequest))
	assert.Contains(t, err.Error(), "quantity")
}

func TestJSONValidationErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"menu_item_id":0,"quantity":0}`))

	var dest line
	errs, err := bind.JSON(req, &dest)
	require.NoError(t, err)
	assert.Contains(t, errs, "menu_item_id")
	assert.Contains(t, errs, "quantity")
}

func TestJSONEmptyBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))

	var dest line
	_, err := bind.JSON(req, &dest)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequest))
}
