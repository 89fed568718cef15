package core

import (
	"net"
	"net/http"
)

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return ip
}
