package idp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx response from the identity provider. Message carries
// the provider's own wording and must not be shown to end users unverified;
// auth.Classify is the only consumer allowed to interpret it.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("idp: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("idp: %d: %s", e.Status, e.Message)
}

// providers are not consistent about their error body shape, so every known
// field is tried in order.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorCode        string `json:"error_code"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// newAPIError builds an APIError from a non-2xx provider response.
func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(body) == 0 {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	apiErr.Code = parsed.ErrorCode
	switch {
	case parsed.Msg != "":
		apiErr.Message = parsed.Msg
	case parsed.Message != "":
		apiErr.Message = parsed.Message
	case parsed.ErrorDescription != "":
		apiErr.Message = parsed.ErrorDescription
	case parsed.ErrorField != "":
		apiErr.Message = parsed.ErrorField
	default:
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
