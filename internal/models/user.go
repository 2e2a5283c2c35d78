package models

import (
	"errors"
	"strings"
	"time"
)

type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleTeller   UserRole = "TELLER"
)

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// User is a customer or teller profile. There are no credentials here;
// callers are identified by their token.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       UserRole  `json:"role"`
	ProfileURL string    `json:"profileUrl,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    *Address  `json:"address,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (u *User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("name required")
	}
	u.Email = NormalizeEmail(u.Email)
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	if u.Role != RoleCustomer && u.Role != RoleTeller {
		return errors.New("role must be CUSTOMER or TELLER")
	}
	return nil
}

// UserUpdate is the self-service subset of a profile. ID, Role and CreatedAt
// have no field here and cannot change.
type UserUpdate struct {
	Name       *string  `json:"name,omitempty"`
	Email      *string  `json:"email,omitempty"`
	ProfileURL *string  `json:"profileUrl,omitempty"`
	Phone      *string  `json:"phone,omitempty"`
	Address    *Address `json:"address,omitempty"`
}

func (u UserUpdate) Apply(user *User, now time.Time) {
	if u.Name != nil {
		user.Name = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		user.Email = NormalizeEmail(*u.Email)
	}
	if u.ProfileURL != nil {
		user.ProfileURL = *u.ProfileURL
	}
	if u.Phone != nil {
		user.Phone = *u.Phone
	}
	if u.Address != nil {
		a := *u.Address
		user.Address = &a
	}
	user.UpdatedAt = now
}
