package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := validateIdp(&cfg.Idp); err != nil {
		return fmt.Errorf("idp config validation failed: %w", err)
	}
	if err := validateSession(&cfg.Session); err != nil {
		return fmt.Errorf("session config validation failed: %w", err)
	}
	for name, p := range cfg.OAuth2Providers {
		if p.Name != name {
			return fmt.Errorf("oauth2 provider %q: name field %q does not match map key", name, p.Name)
		}
	}
	return nil
}

// validateServer ensures Addr contains a valid host:port or :port format.
// If only a port is provided (e.g. ":8080"), the host defaults to "localhost".
func validateServer(server *Server) error {
	if server.Addr == "" {
		return fmt.Errorf("server address (Addr) cannot be empty")
	}

	host, port, err := net.SplitHostPort(server.Addr)
	if err != nil {
		if strings.HasPrefix(server.Addr, ":") {
			port = strings.TrimPrefix(server.Addr, ":")
			host = "localhost"
		} else {
			return fmt.Errorf("invalid server address format '%s': %w", server.Addr, err)
		}
	}

	if port == "" {
		return fmt.Errorf("server address '%s' must include a port", server.Addr)
	}

	server.Addr = net.JoinHostPort(host, port)

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port '%s' in server address '%s': %w", port, server.Addr, err)
	}

	return nil
}

func validateIdp(idp *Idp) error {
	if idp.URL == "" {
		return fmt.Errorf("idp url cannot be empty")
	}
	u, err := url.Parse(idp.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("idp url '%s' is not an absolute URL", idp.URL)
	}
	if idp.AnonKey.Value == "" {
		return fmt.Errorf("idp anon key is empty (set %s)", idp.AnonKey.Name)
	}
	if idp.RequestTimeout.Duration <= 0 {
		return fmt.Errorf("idp request timeout must be positive")
	}
	if idp.KeySetTTL.Duration <= 0 {
		return fmt.Errorf("idp key set ttl must be positive")
	}
	return nil
}

func validateSession(s *Session) error {
	if s.AccessCookieName == "" || s.RefreshCookieName == "" {
		return fmt.Errorf("session cookie names cannot be empty")
	}
	if s.AccessCookieName == s.RefreshCookieName {
		return fmt.Errorf("access and refresh cookie names must differ")
	}
	return nil
}
