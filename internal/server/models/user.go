package models

import "time"

// User is an account of the development identity provider. PasswordHash is
// argon2id over the password and Salt.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}

// Session is what a successful sign-in returns to the client.
type Session struct {
	UserID      string
	AccessToken string
}
