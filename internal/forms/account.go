package forms

import (
	"strings"

	"taskboard/internal/service"
)

// RegisterForm is the sign-up form.
type RegisterForm struct {
	Name     string `form:"name" validate:"required,min=2"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// Input validates the form. Passwords are sent as typed.
func (f RegisterForm) Input() (service.RegisterInput, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if err := check(f); err != nil {
		return service.RegisterInput{}, err
	}
	return service.RegisterInput{Name: f.Name, Email: f.Email, Password: f.Password}, nil
}

// LoginForm is the sign-in form.
type LoginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Credentials validates the form.
func (f LoginForm) Credentials() (service.Credentials, error) {
	f.Email = strings.TrimSpace(f.Email)
	if err := check(f); err != nil {
		return service.Credentials{}, err
	}
	return service.Credentials{Email: f.Email, Password: f.Password}, nil
}

// ProfileForm is the profile edit form. Empty fields are not changed.
type ProfileForm struct {
	Name     string `form:"name" validate:"omitempty,min=2"`
	Email    string `form:"email" validate:"omitempty,email"`
	Password string `form:"password" validate:"omitempty,min=6"`
}

// Input validates the form.
func (f ProfileForm) Input() (service.ProfileInput, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	if err := check(f); err != nil {
		return service.ProfileInput{}, err
	}
	return service.ProfileInput{Name: f.Name, Email: f.Email, Password: f.Password}, nil
}
