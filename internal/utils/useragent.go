package utils

import (
	"fmt"
	"strings"

	ua "github.com/mssola/user_agent"
)

// DescribeDevice condenses a User-Agent string into the short label stored
// with each session, e.g. "Chrome 120 on Windows 10 (desktop)".
func DescribeDevice(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}

	parser := ua.New(userAgent)

	browser, version := parser.Browser()
	if browser == "" {
		browser = "Unknown"
	}
	if version != "" {
		if i := strings.Index(version, "."); i > 0 {
			version = version[:i]
		}
		browser = browser + " " + version
	}

	osInfo := parser.OSInfo()
	os := osInfo.Name
	if os == "" {
		os = "Unknown"
	} else if osInfo.Version != "" {
		os = os + " " + osInfo.Version
	}

	return fmt.Sprintf("%s on %s (%s)", browser, os, deviceType(parser))
}

func deviceType(parser *ua.UserAgent) string {
	if parser.Bot() {
		return "bot"
	}
	if parser.Mobile() {
		if strings.Contains(strings.ToLower(parser.UA()), "ipad") ||
			strings.Contains(strings.ToLower(parser.UA()), "tablet") {
			return "tablet"
		}
		return "mobile"
	}
	return "desktop"
}
