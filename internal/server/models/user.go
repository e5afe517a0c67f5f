// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. BlogIDs is the denormalized, ordered list of blogs
// the user created; it is appended on creation and never pruned.
type User struct {
	ID           string    `json:"id"`
	UserName     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	BlogIDs      []string  `json:"blogs"`
	CreatedAt    time.Time `json:"-"`
}
