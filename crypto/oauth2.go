package crypto

import (
	"crypto/sha256"
	"encoding/base64"
)

// Defined in RFC 7636 (PKCE). Allowed characters: A-Z, a-z, 0-9, and the symbols -, ., _, ~.
const pkceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// The OAuth2 specification (RFC 6749) doesn't mandate a specific length for
// the state parameter, only that it is random and unguessable.
const Oauth2StateLength = 32

// Defined in RFC 7636 (PKCE). Its length must be between 43 and 128 characters.
const OauthCodeVerifierLength = 43

// Oauth2State returns a random state parameter linking an authorization
// request to its callback (CSRF protection).
func Oauth2State() string {
	return RandomString(Oauth2StateLength, AlphanumericAlphabet)
}

func Oauth2CodeVerifier() string {
	return RandomString(OauthCodeVerifierLength, pkceAlphabet)
}

// S256Challenge derives the PKCE code challenge from a verifier.
func S256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
