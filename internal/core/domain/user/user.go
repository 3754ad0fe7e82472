package user

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	PasswordSalt string    `json:"-" db:"password_salt"`
	Gender       Gender    `json:"gender" db:"gender"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

const (
	MinNameLength     = 3
	MaxNameLength     = 35
	MinPasswordLength = 6
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	ErrNameLength      = fmt.Errorf("name must be between %d and %d characters", MinNameLength, MaxNameLength)
	ErrInvalidEmail    = errors.New("a valid email is required")
	ErrPasswordLength  = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidGender   = errors.New("gender must be either male or female")
	ErrCaptchaRequired = errors.New("captcha token is required")
)

// NormalizeEmail lowercases and trims an email so cache keys and the
// unique index always see the same form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateName(name string) error {
	if l := len(strings.TrimSpace(name)); l < MinNameLength || l > MaxNameLength {
		return ErrNameLength
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordLength
	}
	return nil
}

// SignupRequest carries the raw signup input before any OTP is issued.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Gender   Gender `json:"gender"`
	Captcha  string `json:"captcha"`
}

// Validate reports the first failing constraint only.
func (r *SignupRequest) Validate() error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if err := ValidateEmail(NormalizeEmail(r.Email)); err != nil {
		return err
	}
	if err := ValidatePassword(r.Password); err != nil {
		return err
	}
	if !r.Gender.IsValid() {
		return ErrInvalidGender
	}
	if r.Captcha == "" {
		return ErrCaptchaRequired
	}
	return nil
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResendOTPRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type UpdateNameRequest struct {
	Name string `json:"name"`
}
