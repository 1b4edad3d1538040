package models

import "time"

// RoleAdmin marks the tournament organizing committee; everyone else is a
// regular registrant.
const RoleAdmin = "BTC"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
