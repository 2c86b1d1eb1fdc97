package utils

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIP extracts the caller's address for logging and rate limiting.
//
// Priority order:
//  1. X-Real-IP header when it holds a public address (set by Nginx and similar)
//  2. the first public address in X-Forwarded-For
//  3. the first valid address in X-Forwarded-For when all hops are private
//  4. gin's ClientIP (RemoteAddr for direct connections)
func ClientIP(c *gin.Context) string {
	realIP := strings.TrimSpace(c.Request.Header.Get("X-Real-IP"))
	if ip := net.ParseIP(realIP); ip != nil && isPublicIP(ip) {
		return realIP
	}

	forwarded := c.Request.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for _, hop := range hops {
			candidate := strings.TrimSpace(hop)
			if ip := net.ParseIP(candidate); ip != nil && isPublicIP(ip) {
				return candidate
			}
		}
		first := strings.TrimSpace(hops[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	return c.ClientIP()
}

// isPublicIP reports whether ip is routable on the public internet
func isPublicIP(ip net.IP) bool {
	return !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsLinkLocalUnicast() && !ip.IsUnspecified()
}
