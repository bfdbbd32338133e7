package http

import (
	"errors"
	"net/mail"
	"strings"
)

const minPasswordLength = 8

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r *SignupRequest) Validate() error {
	if !isEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	if len(r.Password) < minPasswordLength {
		return errors.New("password must be at least 8 characters long")
	}
	if strings.TrimSpace(r.FirstName) == "" || strings.TrimSpace(r.LastName) == "" {
		return errors.New("firstName and lastName are required")
	}
	return nil
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SigninRequest) Validate() error {
	if !isEmail(r.Email) || strings.TrimSpace(r.Password) == "" {
		return errors.New("email and password are required")
	}
	return nil
}

type ConfirmSignupRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmationCode"`
}

func (r *ConfirmSignupRequest) Validate() error {
	if !isEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	if len(r.ConfirmationCode) != 6 {
		return errors.New("confirmationCode must be 6 characters")
	}
	return nil
}

type ResendConfirmationRequest struct {
	Email string `json:"email"`
}

func (r *ResendConfirmationRequest) Validate() error {
	if !isEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	if !isEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	return nil
}

type ConfirmForgotPasswordRequest struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmationCode"`
	NewPassword      string `json:"newPassword"`
}

func (r *ConfirmForgotPasswordRequest) Validate() error {
	if !isEmail(r.Email) {
		return errors.New("a valid email is required")
	}
	if len(r.ConfirmationCode) != 6 {
		return errors.New("confirmationCode must be 6 characters")
	}
	if len(r.NewPassword) < minPasswordLength {
		return errors.New("newPassword must be at least 8 characters long")
	}
	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return errors.New("refreshToken is required")
	}
	return nil
}

// isEmail accepts a bare RFC 5322 address. Display names ("Ada <a@b.com>")
// are rejected.
func isEmail(email string) bool {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
