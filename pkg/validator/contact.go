package validator

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyName indicates the contact name is empty
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyEmail indicates the contact email is empty
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrEmptyPhone indicates the contact phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// Contact is a normalized customer contact
type Contact struct {
	Name  string
	Email string
	Phone string
}

// ContactValidator checks and normalizes the contact captured at checkout
type ContactValidator struct{}

// NewContactValidator creates a new contact validator instance
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// Validate trims every field and lower-cases the email.
// Fields are checked in order name, email, phone; the first empty one is
// reported.
func (v *ContactValidator) Validate(name, email, phone string) (Contact, error) {
	contact := Contact{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Phone: strings.TrimSpace(phone),
	}

	switch {
	case contact.Name == "":
		return Contact{}, ErrEmptyName
	case contact.Email == "":
		return Contact{}, ErrEmptyEmail
	case contact.Phone == "":
		return Contact{}, ErrEmptyPhone
	}

	return contact, nil
}

// IsValid is a convenience method that returns true if all fields are present
func (v *ContactValidator) IsValid(name, email, phone string) bool {
	_, err := v.Validate(name, email, phone)
	return err == nil
}
