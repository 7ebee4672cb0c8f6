package models

import "strings"

// RegisterInput is submitted by the registration form.
type RegisterInput struct {
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required,min=1,max=256"`
	Name     string `validate:"required,max=100"`
}

// LoginInput is submitted by the login form.
type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// NormalizeEmail trims and lower-cases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in *LoginInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
}

func (in *RegisterInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
}
