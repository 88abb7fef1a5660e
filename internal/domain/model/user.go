package model

import (
	"time"
)

// User is keyed by the identity provider's numeric id, which is stable across
// renames. Name is the provider login at first sign-in.
type User struct {
	IdentityKey int64     `json:"id"`
	Name        string    `json:"name"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}
