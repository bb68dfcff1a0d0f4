package model

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Phone        *string   `db:"phone"` // Nullable: login by phone is optional
	Firstname    string    `db:"firstname"`
	Lastname     string    `db:"lastname"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Identity returns the session view of the user, without credentials.
func (u *User) Identity() *Identity {
	id := &Identity{
		ID:        u.ID,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
	}
	if u.Phone != nil {
		id.Phone = *u.Phone
	}
	return id
}

// Identity is the authenticated user as seen by handlers and clients.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func (i *Identity) DisplayName() string {
	switch {
	case i.Firstname != "" && i.Lastname != "":
		return i.Firstname + " " + i.Lastname
	case i.Firstname != "":
		return i.Firstname
	default:
		return i.Email
	}
}
