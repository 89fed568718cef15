package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks
	CodeOkLogout                 = "ok_logout"
	CodeOkOtpRequested           = "ok_otp_requested"
	CodeOkPasswordResetRequested = "ok_password_reset_requested"
	CodeOkPasswordChanged        = "ok_password_changed"
	CodeOkPasswordLoginEnabled   = "ok_password_login_enabled"
	CodeOkPasswordLoginDisabled  = "ok_password_login_disabled"
	CodeOkIdentityUnlinked       = "ok_identity_unlinked"

	// errors
	CodeErrorInvalidRequest         = "err_invalid_input"
	CodeErrorInvalidCredentials     = "err_invalid_credentials"
	CodeErrorTokenExpired           = "err_token_expired"
	CodeErrorNoSession              = "err_no_session"
	CodeErrorServiceUnavailable     = "err_service_unavailable"
	CodeErrorEmailConflict          = "err_email_conflict"
	CodeErrorAlreadyLinked          = "err_already_linked"
	CodeErrorLinkingDisabled        = "err_linking_disabled"
	CodeErrorLastMethod             = "err_last_method"
	CodeErrorIdentityNotFound       = "err_identity_not_found"
	CodeErrorMethodNotEnableable    = "err_method_not_enableable"
	CodeErrorPasswordLoginDisabled  = "err_password_login_disabled"
	CodeErrorInvalidOAuth2Provider  = "err_invalid_oauth2_provider"
	CodeErrorOAuth2FlowMissing      = "err_oauth2_flow_missing"
	CodeErrorInternal               = "err_internal"
	CodeErrorInvalidContentType     = "err_invalid_content_type"
)

// precomputeBasicResponse marshals the response once during initialization
// so request handling only writes the stored bytes.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	// errors
	errorInvalidRequest        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorInvalidCredentials    = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidCredentials, "Invalid credentials provided")
	errorTokenExpired          = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorTokenExpired, "Authentication token has expired")
	errorNoSession             = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNoSession, "Authentication required")
	errorServiceUnavailable    = precomputeBasicResponse(http.StatusServiceUnavailable, CodeErrorServiceUnavailable, "The sign-in service is temporarily unavailable. Please try again.")
	errorEmailConflict         = precomputeBasicResponse(http.StatusConflict, CodeErrorEmailConflict, "An account with this email already exists. Sign in with your existing method, then link this provider from settings.")
	errorAlreadyLinked         = precomputeBasicResponse(http.StatusConflict, CodeErrorAlreadyLinked, "This identity is already linked to an account. Sign in with your existing method, then link it from settings.")
	errorLinkingDisabled       = precomputeBasicResponse(http.StatusConflict, CodeErrorLinkingDisabled, "Linking additional sign-in methods is not available")
	errorLastMethod            = precomputeBasicResponse(http.StatusConflict, CodeErrorLastMethod, "At least one sign-in method must remain enabled")
	errorIdentityNotFound      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorIdentityNotFound, "The requested sign-in identity was not found")
	errorMethodNotEnableable   = precomputeBasicResponse(http.StatusConflict, CodeErrorMethodNotEnableable, "This sign-in method cannot be changed for the account")
	errorPasswordLoginDisabled = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorPasswordLoginDisabled, "Password sign-in is disabled for this account")
	errorInvalidOAuth2Provider = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOAuth2Provider, "Invalid OAuth2 provider specified")
	errorOAuth2FlowMissing     = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2FlowMissing, "No OAuth2 flow in progress")
	errorInternal              = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorInternal, "An internal error occurred")
	errorInvalidContentType    = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")

	// oks
	okLogout                 = precomputeBasicResponse(http.StatusOK, CodeOkLogout, "Signed out")
	okOtpRequested           = precomputeBasicResponse(http.StatusAccepted, CodeOkOtpRequested, "A sign-in code will be sent to your email if an account exists")
	okPasswordResetRequested = precomputeBasicResponse(http.StatusAccepted, CodeOkPasswordResetRequested, "Password reset instructions will be sent to your email if it exists in our system")
	okPasswordChanged        = precomputeBasicResponse(http.StatusOK, CodeOkPasswordChanged, "Password changed successfully")
)
