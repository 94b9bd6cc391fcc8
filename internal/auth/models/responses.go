package models

import "time"

// UserResponse is the JSON shape of a user record. Password carries the bcrypt
// hash and is only populated when the server is configured to expose it.
type UserResponse struct {
	ID          string    `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	IDNumber    string    `json:"idNumber"`
	PhoneNumber string    `json:"phoneNumber"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
	Password    string    `json:"password,omitempty"`
}

func NewUserResponse(u *User, exposePasswordHash bool) *UserResponse {
	resp := &UserResponse{
		ID:          u.ID.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		IDNumber:    u.IDNumber,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
	}
	if exposePasswordHash {
		resp.Password = u.PasswordHash
	}
	return resp
}

// ProfileResponse is the decoded session claim returned by /auth/profile.
type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
}
