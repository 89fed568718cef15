package auth

import (
	"fmt"
	"net/http"
)

// Kind is the closed failure taxonomy every component in this package deals
// in. Raw provider errors never cross a component boundary; Classify maps
// them here and nothing above it re-interprets provider messages.
type Kind int

const (
	// KindTransient failures are expected to resolve on retry (provider
	// outage, network). They must never destroy local session state.
	KindTransient Kind = iota
	// KindInvalid covers genuinely bad credentials and malformed tokens.
	KindInvalid
	// KindExpired is an access token past its expiry, recoverable by refresh.
	KindExpired
	// KindConflict covers already-linked, last-identity and email-collision
	// failures. Reason refines it.
	KindConflict
	// KindNotFound marks missing-resource failures. On the HTTP surface it
	// collapses into unauthenticated so existence is never revealed.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindInvalid:
		return "invalid"
	case KindExpired:
		return "expired"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	}
	return "unknown"
}

// HTTPStatus maps a kind to the status the HTTP surface uses for it.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindTransient:
		return http.StatusServiceUnavailable
	case KindConflict:
		return http.StatusConflict
	default:
		// invalid, expired and not-found all collapse into 401.
		return http.StatusUnauthorized
	}
}

// Reason refines conflict-style failures.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonAlreadyLinked: the identity or email is already attached to an account.
	ReasonAlreadyLinked
	// ReasonManualLinkingDisabled: the provider refuses link operations.
	ReasonManualLinkingDisabled
	// ReasonLastIdentity: the operation would remove the last usable sign-in method.
	ReasonLastIdentity
	// ReasonIdentityNotFound: the named linked identity does not exist.
	ReasonIdentityNotFound
	// ReasonEmailConflict: the email is mirrored for a different remote identity.
	ReasonEmailConflict
)

// Error is a classified failure with a message safe to show to users.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("auth: %s: %s: %v", e.Kind, e.Message, e.err)
	}
	return fmt.Sprintf("auth: %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// ValidationError reports bad caller input, field by field. It surfaces as a
// 400 with the field map in the response payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("auth: validation failed: %v", e.Fields)
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
