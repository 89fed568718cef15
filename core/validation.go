package core

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
)

// ValidateEmail checks if an email address is valid according to RFC 5322.
// Returns nil if valid, or an error describing why the email is invalid.
func ValidateEmail(email string) error {
	_, err := mail.ParseAddress(email)
	if err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// minPasswordLength follows the hosted provider's own default.
const minPasswordLength = 8

func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

// Validator defines an interface for request validation operations
type Validator interface {
	// ContentType checks if the request's Content-Type matches the allowed type
	ContentType(r *http.Request, allowedType string) (jsonResponse, error)
}

// DefaultValidator implements the Validator interface
type DefaultValidator struct{}

func NewValidator() Validator {
	return &DefaultValidator{}
}

// ContentType checks if the request's Content-Type matches the allowed type.
// Uses http.StatusUnsupportedMediaType (415) for invalid content types.
func (v *DefaultValidator) ContentType(r *http.Request, allowedType string) (jsonResponse, error) {
	errInvalidType := errors.New("invalid content type")
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return errorInvalidContentType, errInvalidType
	}

	// Content-Type may include parameters, e.g. "application/json; charset=utf-8"
	mediaType := strings.Split(contentType, ";")[0]
	mediaType = strings.TrimSpace(mediaType)

	if mediaType != allowedType {
		return errorInvalidContentType, errInvalidType
	}

	return jsonResponse{}, nil
}

// MimeTypeJSON is the only request body type the API accepts.
const MimeTypeJSON = "application/json"
