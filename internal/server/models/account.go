package models

import "time"

// Account is a registered identity. Email is unique across all accounts and
// ID never changes after creation. PasswordHash stays out of every response
// body via the json tag.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"-"`
}
