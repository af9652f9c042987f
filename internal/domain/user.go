package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for User
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyUserName       = errors.New("name cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Password length limits. 72 bytes is bcrypt's input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User is a registered learner.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Password       string    `json:"-"` // plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewUser creates a new User with the given email, display name and
// plaintext password. The caller hashes the password before storing the user.
func NewUser(email, name, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Name:      strings.TrimSpace(name),
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return ErrInvalidEmail
	}

	if u.Name == "" {
		return ErrEmptyUserName
	}

	if u.Password != "" {
		switch {
		case len(u.Password) < MinPasswordLength:
			return ErrPasswordTooShort
		case len(u.Password) > MaxPasswordLength:
			return ErrPasswordTooLong
		}
		return nil
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}
