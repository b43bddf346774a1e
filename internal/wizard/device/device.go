// Package device summarizes a User-Agent header into a short display string
// stored with the session for lead attribution.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Summarize turns a raw User-Agent into "<Browser> on <Platform>". Empty or
// unparseable agents come back as "Unknown Device" rather than an error;
// attribution is best-effort.
func Summarize(rawUA string) string {
	if strings.TrimSpace(rawUA) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	platform := ua.OSInfo().FullName
	if p := ua.Platform(); ua.Mobile() && p != "" {
		platform = p
	}
	if platform == "" {
		platform = "Unknown Platform"
	}

	return browser + " on " + platform
}

// IsBot reports whether the agent identifies itself as a crawler. Bot
// sessions still work; the flag only annotates the lead.
func IsBot(rawUA string) bool {
	if rawUA == "" {
		return false
	}
	return useragent.New(rawUA).Bot()
}
