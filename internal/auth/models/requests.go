package models

import (
	"strings"

	platformstrings "carehub/pkg/platform/strings"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

// RegisterRequest is the /auth/register body. Validation lives in the service
// because the order of checks (and their messages) is part of the contract.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	IDNumber    string `json:"idNumber"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Password    string `json:"password"`
}

// Normalize trims identity fields and lowercases the email. The password is
// left untouched.
func (r *RegisterRequest) Normalize() {
	platformstrings.TrimStrings(&r.FirstName, &r.LastName, &r.Email, &r.IDNumber, &r.PhoneNumber, &r.Address)
	r.Email = NormalizeEmail(r.Email)
}

// LoginRequest is the /auth/login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// NormalizeEmail is the canonical form used for lookup and uniqueness.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
