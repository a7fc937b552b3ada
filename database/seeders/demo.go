package seeders

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/app/services"
	"github.com/shashiranjanraj/foodcourt/internal/kernel"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "password123"

const (
	demoAdminEmail    = "admin@foodcourt.test"
	demoOwnerEmail    = "owner@foodcourt.test"
	demoCustomerEmail = "customer@foodcourt.test"
)

func init() {
	Register("demo", seedDemo)
}

type demoItem struct {
	name, category, price string
}

var demoMenu = []demoItem{
	{"Paneer Tikka", "starters", "180"},
	{"Butter Chicken", "mains", "320"},
	{"Dal Makhani", "mains", "240"},
	{"Garlic Naan", "breads", "60"},
	{"Mango Lassi", "drinks", "90"},
}

// seedDemo creates an administrator, an owner with an approved restaurant and
// a small menu, and a customer. It does nothing once the admin exists.
func seedDemo(ctx context.Context, k *kernel.Kernel) error {
	var n int64
	if err := k.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", demoAdminEmail).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	admin, err := k.Auth.BootstrapAdmin(ctx, services.AdminInput{
		Name: "Demo Admin", Email: demoAdminEmail, Password: DemoPassword,
	})
	if err != nil {
		return err
	}

	owner, err := k.Auth.Register(ctx, services.RegisterInput{
		Name:     "Spice Route",
		Email:    demoOwnerEmail,
		Password: DemoPassword,
		Role:     string(auth.RoleRestaurantOwner),
		Address:  "12 MG Road",
	})
	if err != nil {
		return err
	}
	ownerP := owner.User.Principal()

	rest, err := k.Catalog.MyRestaurant(ctx, ownerP)
	if err != nil {
		return err
	}
	if _, err := k.Catalog.ReviewRestaurant(ctx, admin.Principal(), rest.ID, true); err != nil {
		return err
	}

	for _, it := range demoMenu {
		_, err := k.Catalog.CreateMenuItem(ctx, ownerP, services.MenuItemInput{
			Name:     it.name,
			Category: it.category,
			Price:    decimal.RequireFromString(it.price),
		})
		if err != nil {
			return err
		}
	}

	_, err = k.Auth.Register(ctx, services.RegisterInput{
		Name:     "Demo Customer",
		Email:    demoCustomerEmail,
		Password: DemoPassword,
		Role:     string(auth.RoleCustomer),
		Address:  "7 Park Street",
	})
	return err
}
