package users

import (
	"io"
	"time"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Avatar string `json:"avatar"`
}

type UserProfile struct {
	User    User    `json:"user"`
	Profile Profile `json:"profile"`
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	// bcrypt only takes the first 72 bytes
	Password1 string `json:"password1" validate:"required,min=8,max=72"`
	Password2 string `json:"password2" validate:"required,eqfield=Password1"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type EditProfileRequest struct {
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
}

// ProfileUpdate is what gets persisted on profile edit. A nil Avatar keeps the current one.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Avatar    *string
}

// Upload is an optional avatar image sent along with a form.
type Upload struct {
	Filename string
	File     io.Reader
}
