package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/foodcourt/app/models"
	"github.com/shashiranjanraj/foodcourt/pkg/apperr"
	"github.com/shashiranjanraj/foodcourt/pkg/auth"
	"github.com/shashiranjanraj/foodcourt/pkg/logger"
	"github.com/shashiranjanraj/foodcourt/pkg/rbac"
)

// UserStore is the persistence the account operations need.
type UserStore interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User, restaurant *models.Restaurant) error
	All(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User, cols []string) error
	Delete(ctx context.Context, id uint) error
	CountByRole(ctx context.Context, role auth.Role) (int64, error)
}

// RegisterInput is the public sign-up payload.
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"nullable,in=customer|restaurant-owner"`
	Address  string `json:"address" validate:"nullable,max=500"`
	Phone    string `json:"phone" validate:"nullable,max=50"`
}

// AdminInput creates an administrator account.
type AdminInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Session is returned by Register and Login.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService resolves credentials to principals and manages accounts.
type AuthService struct {
	users  UserStore
	tokens *auth.Tokens
	guard  *rbac.Guard

	// dummyHash is compared against on unknown emails so both login
	// failures cost one bcrypt comparison.
	dummyHash string
}

func NewAuthService(users UserStore, tokens *auth.Tokens, guard *rbac.Guard) *AuthService {
	dummy, _ := auth.HashPassword("foodcourt-dummy-password")
	return &AuthService{users: users, tokens: tokens, guard: guard, dummyHash: dummy}
}

// Authenticate turns a bearer token into the principal of a stored user.
// The role comes from the user record, not the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Principal, error) {
	if strings.TrimSpace(token) == "" {
		return auth.Principal{}, apperr.Unauthenticated("missing bearer token")
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return auth.Principal{}, apperr.Unauthenticated("invalid or expired token")
	}
	id, err := claims.UserID()
	if err != nil {
		return auth.Principal{}, apperr.Unauthenticated("invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, id)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return auth.Principal{}, apperr.Unauthenticated("account no longer exists")
	}
	if err != nil {
		return auth.Principal{}, err
	}
	if !user.Role.Valid() {
		return auth.Principal{}, fmt.Errorf("auth: user %d has unknown role %q", user.ID, user.Role)
	}
	return user.Principal(), nil
}

// Register creates a customer or restaurant-owner account. Owners get a
// pending restaurant named after them in the same transaction.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	role := auth.RoleCustomer
	if in.Role != "" {
		r, err := auth.ParseRole(in.Role)
		if err != nil || r == auth.RoleAdministrator {
			return nil, apperr.Invalid("role must be %q or %q", auth.RoleCustomer, auth.RoleRestaurantOwner)
		}
		role = r
	}

	user, err := s.newUser(in.Name, in.Email, in.Password, role)
	if err != nil {
		return nil, err
	}
	user.Address = strings.TrimSpace(in.Address)
	user.Phone = strings.TrimSpace(in.Phone)

	var rest *models.Restaurant
	if role == auth.RoleRestaurantOwner {
		rest = &models.Restaurant{
			Name:     user.Name,
			Address:  user.Address,
			Phone:    user.Phone,
			Status:   models.RestaurantPending,
			IsActive: true,
		}
	}

	if err := s.users.Create(ctx, user, rest); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("account registered", "user_id", user.ID, "role", role.String())

	return s.session(user)
}

// Login exchanges email and password for a token. Both failure modes
// answer with the same message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}

	if user == nil {
		auth.CheckPassword(s.dummyHash, password)
		return nil, apperr.Unauthenticated("invalid email or password")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthenticated("invalid email or password")
	}
	return s.session(user)
}

// Profile returns the stored account of p.
func (s *AuthService) Profile(ctx context.Context, p auth.Principal) (*models.User, error) {
	return s.users.FindByID(ctx, p.UserID)
}

// CreateAdmin lets an administrator create another administrator.
func (s *AuthService) CreateAdmin(ctx context.Context, p auth.Principal, in AdminInput) (*models.User, error) {
	if err := s.guard.CheckRole(p, rbac.CreateAdmin); err != nil {
		return nil, err
	}
	user, err := s.BootstrapAdmin(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("administrator created", "user_id", user.ID, "by", p.UserID)
	return user, nil
}

// BootstrapAdmin creates an administrator without an acting principal.
// It is reachable only from the CLI, to seed the first administrator.
func (s *AuthService) BootstrapAdmin(ctx context.Context, in AdminInput) (*models.User, error) {
	user, err := s.newUser(in.Name, in.Email, in.Password, auth.RoleAdministrator)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user, nil); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account. Administrators only.
func (s *AuthService) ListUsers(ctx context.Context, p auth.Principal) ([]models.User, error) {
	if err := s.guard.CheckRole(p, rbac.ListUsers); err != nil {
		return nil, err
	}
	return s.users.All(ctx)
}

// GetUser returns any account by id. Administrators only.
func (s *AuthService) GetUser(ctx context.Context, p auth.Principal, id uint) (*models.User, error) {
	if err := s.guard.CheckRole(p, rbac.ViewUser); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// UpdateProfile edits the caller's own name, email and address.
func (s *AuthService) UpdateProfile(ctx context.Context, p auth.Principal, patch models.UserPatch) (*models.User, error) {
	if err := s.guard.Authorize(ctx, p, rbac.ManageAccount, rbac.Resource{UserID: p.UserID}); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	cols := patch.Apply(user)
	if len(cols) == 0 {
		return user, nil
	}
	if user.Name == "" || user.Email == "" {
		return nil, apperr.Invalid("name and email must not be blank")
	}
	if err := s.users.Update(ctx, user, cols); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("profile updated", "user_id", user.ID, "fields", cols)
	return user, nil
}

// DeleteUser removes an account. Users may delete themselves; administrators
// may delete anyone except the last administrator. Deleting an owner removes
// their restaurant and menu; orders stay as history.
func (s *AuthService) DeleteUser(ctx context.Context, p auth.Principal, id uint) error {
	if err := s.guard.Authorize(ctx, p, rbac.ManageAccount, rbac.Resource{UserID: id}); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == auth.RoleAdministrator {
		n, err := s.users.CountByRole(ctx, auth.RoleAdministrator)
		if err != nil {
			return err
		}
		if n <= 1 {
			return apperr.Invalid("cannot delete the last administrator")
		}
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("account deleted", "user_id", id, "role", user.Role.String(), "by", p.UserID)
	return nil
}

func (s *AuthService) newUser(name, email, password string, role auth.Role) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, apperr.Invalid("name and email are required")
	}
	if len(password) < 6 {
		return nil, apperr.Invalid("password must be at least 6 characters")
	}
	if len(password) > auth.MaxPasswordLength {
		return nil, apperr.Invalid("password must be at most %d characters", auth.MaxPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	return &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}, nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
