package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/latticehq/lattice/idp"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantKind   Kind
		wantReason Reason
	}{
		{
			name:     "plain error defaults to invalid",
			err:      errors.New("something odd happened"),
			wantKind: KindInvalid,
		},
		{
			name:     "network text is transient",
			err:      errors.New("Failed to fetch user: network error"),
			wantKind: KindTransient,
		},
		{
			name:     "timeout text is transient",
			err:      errors.New("request timed out"),
			wantKind: KindTransient,
		},
		{
			name:     "deadline exceeded is transient",
			err:      fmt.Errorf("calling provider: %w", context.DeadlineExceeded),
			wantKind: KindTransient,
		},
		{
			name:     "server error is transient",
			err:      &idp.APIError{Status: http.StatusBadGateway, Message: "bad gateway"},
			wantKind: KindTransient,
		},
		{
			name:     "expired message maps to expired",
			err:      &idp.APIError{Status: http.StatusUnauthorized, Message: "JWT expired at 2026-01-01"},
			wantKind: KindExpired,
		},
		{
			name:     "expired code maps to expired",
			err:      &idp.APIError{Status: http.StatusUnauthorized, Code: "token_expired", Message: "nope"},
			wantKind: KindExpired,
		},
		{
			name:     "bad credentials are invalid",
			err:      &idp.APIError{Status: http.StatusBadRequest, Message: "Invalid login credentials"},
			wantKind: KindInvalid,
		},
		{
			name:       "already registered maps to conflict",
			err:        &idp.APIError{Status: http.StatusUnprocessableEntity, Message: "Identity is already linked to another user"},
			wantKind:   KindConflict,
			wantReason: ReasonAlreadyLinked,
		},
		{
			name:       "manual linking disabled maps to conflict",
			err:        &idp.APIError{Status: http.StatusBadRequest, Message: "Manual linking is disabled"},
			wantKind:   KindConflict,
			wantReason: ReasonManualLinkingDisabled,
		},
		{
			name:       "last identity maps to conflict",
			err:        &idp.APIError{Status: http.StatusUnprocessableEntity, Message: "User must have at least 1 identity, cannot unlink the last identity"},
			wantKind:   KindConflict,
			wantReason: ReasonLastIdentity,
		},
		{
			name:       "identity not found maps to not found",
			err:        &idp.APIError{Status: http.StatusUnprocessableEntity, Message: "Identity not found"},
			wantKind:   KindNotFound,
			wantReason: ReasonIdentityNotFound,
		},
		{
			name:     "bare 404 maps to not found",
			err:      &idp.APIError{Status: http.StatusNotFound, Message: "no route"},
			wantKind: KindNotFound,
		},
		{
			name:     "transient text inside api error",
			err:      &idp.APIError{Status: http.StatusBadRequest, Message: "upstream socket hang up"},
			wantKind: KindTransient,
		},
		{
			name:     "validation error is invalid",
			err:      newValidationError("email", "cannot be blank"),
			wantKind: KindInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.err)
			if got.Kind != tc.wantKind {
				t.Errorf("kind: got %v, want %v", got.Kind, tc.wantKind)
			}
			if got.Reason != tc.wantReason {
				t.Errorf("reason: got %v, want %v", got.Reason, tc.wantReason)
			}
			if got.Message == "" {
				t.Error("classified error has no message")
			}
		})
	}
}

func TestClassifyNil(t *testing.T) {
	if got := Classify(nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestClassifyPassesThroughClassified(t *testing.T) {
	original := &Error{Kind: KindConflict, Reason: ReasonEmailConflict, Message: "taken"}
	wrapped := fmt.Errorf("syncing profile: %w", original)

	got := Classify(wrapped)
	if got != original {
		t.Errorf("expected the original classified error back, got %v", got)
	}
}

func TestClassifyWrapsOriginal(t *testing.T) {
	apiErr := &idp.APIError{Status: http.StatusUnauthorized, Message: "Invalid login credentials"}
	got := Classify(apiErr)
	if !errors.Is(got, apiErr) {
		t.Error("classified error does not unwrap to the api error")
	}
	if got.Message == apiErr.Message {
		t.Error("raw provider message leaked into the safe message")
	}
}

func TestKindHTTPStatus(t *testing.T) {
	testCases := []struct {
		kind Kind
		want int
	}{
		{KindTransient, http.StatusServiceUnavailable},
		{KindConflict, http.StatusConflict},
		{KindInvalid, http.StatusUnauthorized},
		{KindExpired, http.StatusUnauthorized},
		{KindNotFound, http.StatusUnauthorized},
	}
	for _, tc := range testCases {
		if got := tc.kind.HTTPStatus(); got != tc.want {
			t.Errorf("%v: got %d, want %d", tc.kind, got, tc.want)
		}
	}
}
