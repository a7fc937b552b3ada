package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodcourt/app/repositories"
	_ "github.com/shashiranjanraj/foodcourt/database/migrations"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/database"
	"github.com/shashiranjanraj/foodcourt/pkg/migration"
	"github.com/shashiranjanraj/foodcourt/pkg/rbac"
)

type stack struct {
	auth    *AuthService
	catalog *CatalogService
	orders  *OrderService
	tokens  *auth.Tokens
}

// newStack wires every service against a fresh in-memory database.
func newStack(t *testing.T) *stack {
	t.Helper()
	db, err := database.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	_, err = migration.New(db, nil).Run()
	require.NoError(t, err)

	users := repositories.NewUserRepository(db, nil)
	catalog := repositories.NewCatalogRepository(db, nil, time.Minute)
	orders := repositories.NewOrderRepository(db)
	guard := rbac.NewGuard(catalog)
	tokens := auth.NewTokens("test-secret", time.Hour)

	return &stack{
		auth:    NewAuthService(users, tokens, guard),
		catalog: NewCatalogService(catalog, users, guard),
		orders:  NewOrderService(orders, catalog, guard, nil),
		tokens:  tokens,
	}
}

func (s *stack) register(t *testing.T, name, email string, role auth.Role) auth.Principal {
	t.Helper()
	sess, err := s.auth.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "secret123", Role: string(role),
	})
	require.NoError(t, err)
	return sess.User.Principal()
}

func (s *stack) admin(t *testing.T) auth.Principal {
	t.Helper()
	u, err := s.auth.BootstrapAdmin(context.Background(), AdminInput{Name: "Root", Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)
	return u.Principal()
}
