package core

import (
	"net/http"

	"github.com/latticehq/lattice/auth"
	"github.com/latticehq/lattice/db"
	"github.com/latticehq/lattice/idp"
)

// This file defines the standardized response formats for the
// authentication endpoints. Tokens never appear in response bodies; they
// travel exclusively in the session cookies.
//
// Example authentication response (login, register, refresh):
//
//	{
//	  "status": 200,
//	  "code": "ok_authentication",
//	  "message": "Authentication successful",
//	  "data": {
//	    "token_type": "Bearer",
//	    "expires_in": 3600,
//	    "record": {
//	      "id": 42,
//	      "email": "user@example.com",
//	      "name": "Jane Doe",
//	      "avatar": "https://..."
//	    }
//	  }
//	}

const (
	// oks for non precomputed, dynamic responses
	CodeOkAuthentication      = "ok_authentication"
	CodeOkAuthMethods         = "ok_auth_methods"
	CodeOkOAuth2Start         = "ok_oauth2_start"
	CodeOkOAuth2ProvidersList = "ok_oauth2_providers_list"
)

// AuthRecord represents the profile record in authentication responses
type AuthRecord struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// AuthData represents the authentication response structure
type AuthData struct {
	TokenType string     `json:"token_type"`
	ExpiresIn int        `json:"expires_in"`
	Record    AuthRecord `json:"record"`
}

func newAuthRecord(profile *db.Profile) AuthRecord {
	return AuthRecord{
		ID:     profile.ID,
		Email:  profile.Email,
		Name:   profile.Name,
		Avatar: profile.Avatar,
	}
}

// writeAuthResponse writes a standardized authentication response
func writeAuthResponse(w http.ResponseWriter, session *idp.Session, profile *db.Profile) {
	expiresIn := 0
	if session != nil {
		expiresIn = session.ExpiresIn
	}
	response := JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthentication,
			Message: "Authentication successful",
		},
		Data: AuthData{
			TokenType: "Bearer",
			ExpiresIn: expiresIn,
			Record:    newAuthRecord(profile),
		},
	}
	writeJsonWithData(w, response)
}

// writeAuthMethodsResponse writes the method inventory for the account.
// code and message name the operation that produced the inventory.
func writeAuthMethodsResponse(w http.ResponseWriter, code, message string, status auth.MethodsStatus) {
	response := JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    code,
			Message: message,
		},
		Data: status,
	}
	writeJsonWithData(w, response)
}
