package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// ClientAgent holds the parts of a User-Agent worth logging
type ClientAgent struct {
	DeviceType string `json:"device_type"` // mobile, tablet, desktop, bot, unknown
	OS         string `json:"os"`
	Browser    string `json:"browser"`
	Version    string `json:"browser_version"`
	IsBot      bool   `json:"is_bot"`
}

// ParseUserAgent parses a User-Agent header value
func ParseUserAgent(userAgent string) ClientAgent {
	if strings.TrimSpace(userAgent) == "" {
		return ClientAgent{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
		}
	}

	parser := ua.New(userAgent)
	name, version := parser.Browser()
	if name == "" {
		name = "Unknown"
	}
	os := parser.OS()
	if os == "" {
		os = "Unknown"
	}

	return ClientAgent{
		DeviceType: deviceType(parser),
		OS:         os,
		Browser:    name,
		Version:    version,
		IsBot:      parser.Bot(),
	}
}

func deviceType(parser *ua.UserAgent) string {
	switch {
	case parser.Bot():
		return "bot"
	case parser.Mobile() && isTablet(parser.UA()):
		return "tablet"
	case parser.Mobile():
		return "mobile"
	default:
		return "desktop"
	}
}

func isTablet(userAgent string) bool {
	lower := strings.ToLower(userAgent)
	for _, indicator := range []string{"ipad", "tablet", "kindle", "playbook", "sm-t"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
