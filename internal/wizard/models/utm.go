package models

import "net/url"

// TrackedParams are the campaign parameters captured at wizard start and
// threaded through every step change and the final submission.
var TrackedParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
	"gclid", "fbclid",
}

// UTMParams maps tracked parameter names to values.
type UTMParams map[string]string

// UTMFromQuery extracts tracked parameters from a raw URL query string.
// Malformed queries yield an empty set; tracking is best-effort.
func UTMFromQuery(rawQuery string) UTMParams {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return UTMParams{}
	}
	params := UTMParams{}
	for _, name := range TrackedParams {
		if v := values.Get(name); v != "" {
			params[name] = v
		}
	}
	return params
}

// MergeUTM applies the precedence rule: the URL is the source of truth, the
// captured set is a fallback for navigations that stripped the query string.
// When the URL carries any tracked parameter its set wins wholesale.
func MergeUTM(captured UTMParams, rawQuery string) UTMParams {
	fromURL := UTMFromQuery(rawQuery)
	if len(fromURL) > 0 {
		return fromURL
	}
	return captured
}
