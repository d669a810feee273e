package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoginForm holds the fields required to log in.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterForm holds the fields required to create an account.
type RegisterForm struct {
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=8"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
}

// ValidateLogin checks the login form fields before any network call is made.
func ValidateLogin(email, password string) error {
	return describe(validate.Struct(LoginForm{Email: email, Password: password}))
}

// ValidateRegister checks the registration form fields before any network call is made.
func ValidateRegister(form RegisterForm) error {
	return describe(validate.Struct(form))
}

// ValidateEventID checks that an event identifier is usable.
func ValidateEventID(id int) error {
	if id <= 0 {
		return fmt.Errorf("event ID must be a positive integer, got %d", id)
	}
	return nil
}

// ValidateClubID checks that a club identifier is usable.
func ValidateClubID(id int) error {
	if id <= 0 {
		return fmt.Errorf("club ID must be a positive integer, got %d", id)
	}
	return nil
}

// ValidateNonEmptyString checks that a required field is present.
func ValidateNonEmptyString(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// describe turns validator's field errors into a single readable message.
func describe(err error) error {
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s cannot be empty", fe.Field())
	case "email":
		return fmt.Errorf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Errorf("%s must be at least %s characters long", fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%s is invalid", fe.Field())
	}
}
