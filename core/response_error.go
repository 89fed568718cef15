package core

import (
	"errors"
	"net/http"

	"github.com/latticehq/lattice/auth"
)

// writeClassifiedError maps a classified auth failure onto the precomputed
// responses. Validation failures carry their field map in the payload.
func writeClassifiedError(w http.ResponseWriter, err error) {
	var validationErr *auth.ValidationError
	if errors.As(err, &validationErr) {
		writeJsonWithData(w, JsonWithData{
			JsonBasic: JsonBasic{
				Status:  http.StatusBadRequest,
				Code:    CodeErrorInvalidRequest,
				Message: "The request contains invalid data",
			},
			Data: validationErr.Fields,
		})
		return
	}

	cerr := auth.Classify(err)
	switch cerr.Kind {
	case auth.KindTransient:
		writeJsonError(w, errorServiceUnavailable)
	case auth.KindExpired:
		writeJsonError(w, errorTokenExpired)
	case auth.KindConflict:
		switch cerr.Reason {
		case auth.ReasonAlreadyLinked:
			writeJsonError(w, errorAlreadyLinked)
		case auth.ReasonManualLinkingDisabled:
			writeJsonError(w, errorLinkingDisabled)
		case auth.ReasonLastIdentity:
			writeJsonError(w, errorLastMethod)
		case auth.ReasonEmailConflict:
			writeJsonError(w, errorEmailConflict)
		default:
			writeJsonError(w, errorEmailConflict)
		}
	case auth.KindNotFound:
		if cerr.Reason == auth.ReasonIdentityNotFound {
			writeJsonError(w, errorIdentityNotFound)
			return
		}
		// existence is never revealed through auth endpoints
		writeJsonError(w, errorInvalidCredentials)
	default:
		writeJsonError(w, errorInvalidCredentials)
	}
}
