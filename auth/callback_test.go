package auth

import (
	"net/url"
	"testing"
)

func TestParseCallback(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want CallbackData
	}{
		{
			name: "code flow in the query",
			raw:  "https://app.example.com/cb?code=abc&state=xyz",
			want: CallbackData{Code: "abc", State: "xyz"},
		},
		{
			name: "tokens in the fragment",
			raw:  "https://app.example.com/cb#access_token=at&refresh_token=rt&state=xyz",
			want: CallbackData{AccessToken: "at", RefreshToken: "rt", State: "xyz"},
		},
		{
			name: "error in the query",
			raw:  "https://app.example.com/cb?error=access_denied&error_description=denied",
			want: CallbackData{Error: "access_denied", ErrorDescription: "denied"},
		},
		{
			name: "error in the fragment",
			raw:  "https://app.example.com/cb#error=server_error&error_code=500&error_description=boom",
			want: CallbackData{Error: "server_error", ErrorCode: "500", ErrorDescription: "boom"},
		},
		{
			name: "query wins over fragment",
			raw:  "https://app.example.com/cb?state=query#state=fragment",
			want: CallbackData{State: "query"},
		},
		{
			name: "empty callback",
			raw:  "https://app.example.com/cb",
			want: CallbackData{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := url.Parse(tc.raw)
			if err != nil {
				t.Fatalf("parsing url: %v", err)
			}
			if got := ParseCallback(u); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCallbackDataPredicates(t *testing.T) {
	if (CallbackData{AccessToken: "at"}).HasTokens() {
		t.Error("access token alone is not a usable pair")
	}
	if !(CallbackData{AccessToken: "at", RefreshToken: "rt"}).HasTokens() {
		t.Error("full pair not detected")
	}
	if !(CallbackData{ErrorCode: "otp_expired"}).HasError() {
		t.Error("error code alone not detected")
	}
	if (CallbackData{Code: "abc"}).HasError() {
		t.Error("plain code flagged as error")
	}
}
