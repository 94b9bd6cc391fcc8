package models

import (
	"time"

	id "carehub/pkg/domain"
	"carehub/pkg/requestcontext"
)

// User is a registered account. PasswordHash is the bcrypt hash; the plaintext
// is never stored. Email and IDNumber are unique across users.
type User struct {
	ID           id.UserID
	FirstName    string
	LastName     string
	Email        string
	IDNumber     string
	PhoneNumber  string
	Address      string
	PasswordHash string
	CreatedAt    time.Time
}

// Claim returns the identity a session token is issued for.
func (u *User) Claim() requestcontext.Identity {
	return requestcontext.Identity{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
	}
}
