package suppliers

import (
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	maxTitleLen     = 32
	maxFirstNameLen = 64
	maxLastNameLen  = 64
)

var (
	phonePattern   = regexp.MustCompile(`^[0-9]{1,10}$`)
	emailValidator = validator.New()
)

// FieldError is a single field-scoped validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks a candidate supplier against all field-level rules and
// returns every failure found. An empty result means the supplier is valid.
// The function performs no I/O.
func Validate(s Supplier) []FieldError {
	return validateAt(s, time.Now().UTC())
}

func validateAt(s Supplier, now time.Time) []FieldError {
	var errs []FieldError

	// The caps count characters, not bytes.
	if utf8.RuneCountInString(s.Title) > maxTitleLen {
		errs = append(errs, FieldError{Field: "title", Message: fmt.Sprintf("Title must be %d characters or fewer", maxTitleLen)})
	}
	if utf8.RuneCountInString(s.FirstName) > maxFirstNameLen {
		errs = append(errs, FieldError{Field: "firstName", Message: fmt.Sprintf("FirstName must be %d characters or fewer", maxFirstNameLen)})
	}
	if utf8.RuneCountInString(s.LastName) > maxLastNameLen {
		errs = append(errs, FieldError{Field: "lastName", Message: fmt.Sprintf("LastName must be %d characters or fewer", maxLastNameLen)})
	}

	for i, email := range s.Emails {
		if emailValidator.Var(email.EmailAddress, "required,email") != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("emails[%d].emailAddress", i),
				Message: "Email address is invalid",
			})
		}
	}

	for i, phone := range s.Phones {
		if !phonePattern.MatchString(phone.PhoneNumber) {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("phones[%d].phoneNumber", i),
				Message: "Phone number is invalid. Must be only numbers and a max of 10 digits",
			})
		}
	}

	if s.ActivationDate != nil {
		// A value carrying a non-UTC zone cannot be compared meaningfully,
		// so the zone failure suppresses the date comparison.
		if _, offset := s.ActivationDate.Zone(); offset != 0 {
			errs = append(errs, FieldError{Field: "activationDate", Message: "ActivationDate must be sent as UTC"})
		} else if s.ActivationDate.Before(startOfTomorrow(now)) {
			errs = append(errs, FieldError{Field: "activationDate", Message: "ActivationDate must be tomorrow or later"})
		}
	}

	return errs
}

// startOfTomorrow returns midnight UTC of the day after now.
func startOfTomorrow(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

// FieldErrorMap groups failures by field path for transport.
func FieldErrorMap(errs []FieldError) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	out := make(map[string][]string, len(errs))
	for _, e := range errs {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}
