package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// UsernameMaxLength bounds the unique handle.
const UsernameMaxLength = 150

// Password length bounds accepted at signup.
const (
	PasswordMinLength = 8
	PasswordMaxLength = 63
)

// User is a registered reader. Username is the immutable identity key.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// SignupForm is an unvalidated registration.
type SignupForm struct {
	Username      string
	Password      string
	PasswordCheck string
}

// Validate trims the username and checks both password fields.
func (f SignupForm) Validate() (string, FieldErrors) {
	username := strings.TrimSpace(f.Username)
	errs := FieldErrors{}
	switch {
	case username == "":
		errs.Add("username", "this field is required")
	case utf8.RuneCountInString(username) > UsernameMaxLength:
		errs.Add("username", maxLengthMessage(UsernameMaxLength))
	}

	length := utf8.RuneCountInString(f.Password)
	switch {
	case f.Password == "":
		errs.Add("password", "this field is required")
	case length < PasswordMinLength:
		errs.Add("password", fmt.Sprintf("ensure this value has at least %d characters", PasswordMinLength))
	case length > PasswordMaxLength:
		errs.Add("password", maxLengthMessage(PasswordMaxLength))
	}
	if f.Password != f.PasswordCheck {
		errs.Add("password_check", "the two passwords do not match")
	}
	return username, errs
}
