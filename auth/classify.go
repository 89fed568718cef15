package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/latticehq/lattice/idp"
)

// transientSubstrings match network-shaped failures in free-text error
// messages. Matching is case-insensitive. The list is closed on purpose:
// widening it silently reclassifies credential failures as retryable.
var transientSubstrings = []string{
	"network",
	"fetch",
	"timeout",
	"timed out",
	"econn",
	"enotfound",
	"socket",
	"temporar",
}

// expiredSubstrings are the dedicated token-expiry signals providers emit.
var expiredSubstrings = []string{
	"token is expired",
	"token expired",
	"jwt expired",
}

func containsAny(msg string, patterns []string) bool {
	msg = strings.ToLower(msg)
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// Classify maps any failure from the provider or the network into the closed
// Kind taxonomy with a caller-safe message. It is the single place raw
// provider error text is inspected.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		// validation errors are caller mistakes, not provider failures
		return &Error{Kind: KindInvalid, Message: "Invalid request", err: err}
	}

	var apiErr *idp.APIError
	if errors.As(err, &apiErr) {
		return classifyAPIError(apiErr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTransient, Message: msgTransient, err: err}
	}

	if containsAny(err.Error(), transientSubstrings) {
		return &Error{Kind: KindTransient, Message: msgTransient, err: err}
	}

	return &Error{Kind: KindInvalid, Message: msgInvalid, err: err}
}

// Safe messages. Raw provider text never reaches callers through these.
const (
	msgTransient       = "The sign-in service is temporarily unavailable. Please try again."
	msgInvalid         = "Invalid credentials provided"
	msgExpired         = "Authentication token has expired"
	msgAlreadyLinked   = "This identity is already linked to an account. Sign in with your existing method, then link it from settings."
	msgLinkingDisabled = "Linking additional sign-in methods is not available"
	msgLastIdentity    = "At least one sign-in method must remain enabled"
	msgIdentityMissing = "The requested sign-in identity was not found"
)

func classifyAPIError(apiErr *idp.APIError) *Error {
	if apiErr.Status >= 500 {
		return &Error{Kind: KindTransient, Message: msgTransient, err: apiErr}
	}

	msg := strings.ToLower(apiErr.Message)

	if containsAny(msg, expiredSubstrings) || apiErr.Code == "token_expired" {
		return &Error{Kind: KindExpired, Message: msgExpired, err: apiErr}
	}

	switch {
	case strings.Contains(msg, "already registered"),
		strings.Contains(msg, "already linked"):
		return &Error{Kind: KindConflict, Reason: ReasonAlreadyLinked, Message: msgAlreadyLinked, err: apiErr}

	case strings.Contains(msg, "manual linking") && strings.Contains(msg, "disabled"):
		return &Error{Kind: KindConflict, Reason: ReasonManualLinkingDisabled, Message: msgLinkingDisabled, err: apiErr}

	case strings.Contains(msg, "last identity"),
		strings.Contains(msg, "only identity"):
		return &Error{Kind: KindConflict, Reason: ReasonLastIdentity, Message: msgLastIdentity, err: apiErr}

	case strings.Contains(msg, "identity") && strings.Contains(msg, "not found"):
		return &Error{Kind: KindNotFound, Reason: ReasonIdentityNotFound, Message: msgIdentityMissing, err: apiErr}
	}

	if containsAny(msg, transientSubstrings) {
		return &Error{Kind: KindTransient, Message: msgTransient, err: apiErr}
	}

	if apiErr.Status == 404 {
		return &Error{Kind: KindNotFound, Message: msgIdentityMissing, err: apiErr}
	}

	return &Error{Kind: KindInvalid, Message: msgInvalid, err: apiErr}
}
