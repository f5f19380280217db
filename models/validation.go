package models

import (
	"regexp"
	"strings"
)

// Form field names, used to tag validation errors
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
	FieldTerms = "terms"
)

// PhoneDigits is the length of a US phone number without punctuation
const PhoneDigits = 10

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

// FieldError is an input error tied to one form field. The message is meant
// for the end user.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// ValidateName requires a non-blank name
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &FieldError{Field: FieldName, Message: "Name is required"}
	}
	return nil
}

// ValidateEmail checks the local@domain.tld shape with a 2-6 letter TLD
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return &FieldError{Field: FieldEmail, Message: "A valid email is required"}
	}
	return nil
}

// ValidatePhone strips everything but digits and requires exactly ten.
// It returns the digit-only form.
func ValidatePhone(phone string) (string, error) {
	digits := DigitsOnly(phone)
	if len(digits) != PhoneDigits {
		return "", &FieldError{Field: FieldPhone, Message: "A valid 10-digit US phone number is required"}
	}
	return digits, nil
}

// ValidateTerms only applies when the form carries a consent checkbox
func ValidateTerms(present, checked bool) error {
	if present && !checked {
		return &FieldError{Field: FieldTerms, Message: "Please accept the terms to continue"}
	}
	return nil
}

// DigitsOnly removes every non-digit character
func DigitsOnly(s string) string {
	return nonDigitRegex.ReplaceAllString(s, "")
}

// ValidateContact runs name, email and phone checks in order and stops at the
// first failure. On success it returns the digit-only phone.
func ValidateContact(name, email, phone string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	return ValidatePhone(phone)
}
