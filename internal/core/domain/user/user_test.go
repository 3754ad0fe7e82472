package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatly/user-service/internal/core/domain/user"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", user.NormalizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "bob@example.com", user.NormalizeEmail("bob@example.com"))
}

func TestSignupRequestValidate(t *testing.T) {
	valid := func() *user.SignupRequest {
		return &user.SignupRequest{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret123",
			Gender:   user.GenderFemale,
			Captcha:  "token",
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(r *user.SignupRequest)
		wantErr error
	}{
		{"name too short", func(r *user.SignupRequest) { r.Name = "ab" }, user.ErrNameLength},
		{"name too long", func(r *user.SignupRequest) { r.Name = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" }, user.ErrNameLength},
		{"bad email", func(r *user.SignupRequest) { r.Email = "not-an-email" }, user.ErrInvalidEmail},
		{"email with spaces", func(r *user.SignupRequest) { r.Email = "a b@example.com" }, user.ErrInvalidEmail},
		{"short password", func(r *user.SignupRequest) { r.Password = "tiny" }, user.ErrPasswordLength},
		{"bad gender", func(r *user.SignupRequest) { r.Gender = "other" }, user.ErrInvalidGender},
		{"missing captcha", func(r *user.SignupRequest) { r.Captcha = "" }, user.ErrCaptchaRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)
			assert.ErrorIs(t, r.Validate(), tt.wantErr)
		})
	}
}

func TestGenderIsValid(t *testing.T) {
	assert.True(t, user.GenderMale.IsValid())
	assert.True(t, user.GenderFemale.IsValid())
	assert.False(t, user.Gender("").IsValid())
	assert.False(t, user.Gender("unknown").IsValid())
}
