package types

import "time"

// User represents a registered account.
// It contains identity, credential, and the user's score ledger.
type User struct {
	// ID is the unique identifier of the user.
	ID int64 `json:"id" db:"id"`

	// Email is the user's email address, stored lowercased.
	// It is unique across all users.
	Email string `json:"email" db:"email"`

	// Name is the user's display name.
	Name string `json:"name" db:"name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Scores is the append-only score ledger in submission order.
	Scores Scores `json:"scores" db:"scores"`

	// CreatedAt is the timestamp when the user registered.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
