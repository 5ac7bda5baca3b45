package api

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type registrationInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=100"`
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// ValidateRegistration enforces the local input policy before any network
// round trip: well-formed email, password of at least 8 characters with an
// uppercase letter, a lowercase letter and a digit. The server stays the
// authority on uniqueness and everything else.
func ValidateRegistration(email, password string) error {
	if err := validate.Struct(registrationInput{Email: email, Password: password}); err != nil {
		return validationError(registrationMessage(err))
	}
	if msg := passwordPolicyMessage(password); msg != "" {
		return validationError(msg)
	}
	return nil
}

// ValidateLogin checks that both fields are present and the email is
// well-formed. Password strength is not re-checked on login.
func ValidateLogin(email, password string) error {
	if err := validate.Struct(loginInput{Email: email, Password: password}); err != nil {
		return validationError("email and password are required")
	}
	return nil
}

func registrationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid registration input"
	}
	fe := errs[0]
	switch {
	case fe.Field() == "Email":
		return "a valid email address is required"
	case fe.Tag() == "min" || fe.Tag() == "max":
		return "password must be between 8 and 100 characters"
	default:
		return "email and password are required"
	}
}

func passwordPolicyMessage(password string) string {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	switch {
	case !hasUpper:
		return "password must contain at least one uppercase letter"
	case !hasLower:
		return "password must contain at least one lowercase letter"
	case !hasDigit:
		return "password must contain at least one number"
	}
	return ""
}
