package router

import "testing"

func TestSplitEndpoint(t *testing.T) {
	testCases := []struct {
		endpoint   string
		wantMethod string
		wantPath   string
	}{
		{"POST /api/auth/login", "POST", "/api/auth/login"},
		{"GET /api/auth/methods", "GET", "/api/auth/methods"},
		{"/favicon.ico", "", "/favicon.ico"},
	}
	for _, tc := range testCases {
		method, path := SplitEndpoint(tc.endpoint)
		if method != tc.wantMethod || path != tc.wantPath {
			t.Errorf("%q: got (%q, %q), want (%q, %q)", tc.endpoint, method, path, tc.wantMethod, tc.wantPath)
		}
	}
}
