package models

import (
	"strings"
	"time"

	"github.com/shashiranjanraj/foodcourt/pkg/auth"
)

// User is an account. Its Role is authoritative for every request the user makes.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"` // bcrypt, never serialised
	Role         auth.Role `gorm:"size:32;not null;index" json:"role"`
	Address      string    `gorm:"size:500" json:"address,omitempty"`
	Phone        string    `gorm:"size:50" json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the request identity for this user.
func (u User) Principal() auth.Principal {
	return auth.Principal{UserID: u.ID, Role: u.Role}
}

// UserPatch is the set of profile fields a user may edit on their own account.
// Nil means unchanged. Role and password are not editable here.
type UserPatch struct {
	Name    *string `json:"name" validate:"nullable,min=1,max=255"`
	Email   *string `json:"email" validate:"nullable,email,max=255"`
	Address *string `json:"address" validate:"nullable,max=500"`
}

// Apply copies the set fields onto u and returns the column names touched.
// Name is trimmed and email lowercased, as on registration.
func (p UserPatch) Apply(u *User) []string {
	var cols []string
	if p.Name != nil {
		u.Name = strings.TrimSpace(*p.Name)
		cols = append(cols, "name")
	}
	if p.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*p.Email))
		cols = append(cols, "email")
	}
	if p.Address != nil {
		u.Address = *p.Address
		cols = append(cols, "address")
	}
	return cols
}
