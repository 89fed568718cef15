package auth

import (
	"net/url"
)

// CallbackData carries whatever the provider handed back on the redirect.
// Depending on flow and provider the parameters land in the query string or
// in the fragment, so both are parsed and merged, query first.
type CallbackData struct {
	Code         string
	State        string
	AccessToken  string
	RefreshToken string

	Error            string
	ErrorCode        string
	ErrorDescription string
}

// HasTokens reports whether the redirect carried a usable token pair
// directly (implicit-style callbacks).
func (d CallbackData) HasTokens() bool {
	return d.AccessToken != "" && d.RefreshToken != ""
}

// HasError reports whether the provider signalled a failure.
func (d CallbackData) HasError() bool {
	return d.Error != "" || d.ErrorCode != "" || d.ErrorDescription != ""
}

// ParseCallback extracts callback parameters from a redirect URL, looking at
// the query string and the fragment alike. Query values win on collision.
func ParseCallback(u *url.URL) CallbackData {
	merged := url.Values{}
	if frag, err := url.ParseQuery(u.Fragment); err == nil {
		for k, vs := range frag {
			merged[k] = vs
		}
	}
	for k, vs := range u.Query() {
		merged[k] = vs
	}
	return CallbackFromValues(merged)
}

// CallbackFromValues builds CallbackData from already-parsed parameters.
func CallbackFromValues(values url.Values) CallbackData {
	return CallbackData{
		Code:             values.Get("code"),
		State:            values.Get("state"),
		AccessToken:      values.Get("access_token"),
		RefreshToken:     values.Get("refresh_token"),
		Error:            values.Get("error"),
		ErrorCode:        values.Get("error_code"),
		ErrorDescription: values.Get("error_description"),
	}
}
