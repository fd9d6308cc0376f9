package users

import "time"

// User is a registered account. PasswordHash never leaves this package.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
