package domain

import "time"

// User is the domain model for registered dashboard accounts. PasswordHash is
// only ever serialized into the record store document, never onto the API.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
