package domain

import "time"

// User is the identity anchor for an account. One per account, created
// at sign-up and never mutated afterwards.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
