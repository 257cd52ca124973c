package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateLeadInput(input LeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if email := strings.TrimSpace(input.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errors = append(errors, ValidationError{"email", "is invalid"})
		}
	}

	if phone := strings.TrimSpace(input.Phone); phone != "" && !isValidPhoneNumber(phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if input.ExpectedValue < 0 {
		errors = append(errors, ValidationError{"expected_value", "must not be negative"})
	}

	return errors
}

func ValidateCreateUserInput(input CreateUserInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if len(input.Password) < 6 {
		errors = append(errors, ValidationError{"password", "must have at least 6 characters"})
	}
	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if !input.Role.Valid() {
		errors = append(errors, ValidationError{"role", "must be Admin or SalesRep"})
	}

	return errors
}

func ValidateCredentials(email, password string) []ValidationError {
	var errors []ValidationError
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if password == "" {
		errors = append(errors, ValidationError{"password", "is required"})
	}
	return errors
}

func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return invalid("validation failed: " + strings.Join(parts, ", "))
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}
