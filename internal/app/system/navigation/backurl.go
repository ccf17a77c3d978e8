// Package navigation provides helpers for safe URL navigation and redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// BackURLOptions configures the behavior of SafeBackURL.
type BackURLOptions struct {
	// AllowedPrefix is the required URL prefix (e.g., "/journey").
	// If empty, any safe URL is allowed.
	AllowedPrefix string

	// ExcludedPrefixes are paths never returned to (e.g., "/auth", "/logout").
	// These prevent redirect loops back to action pages.
	ExcludedPrefixes []string

	// Fallback is the default URL if no valid return URL is found.
	Fallback string
}

// SafeBackURL extracts and validates a return URL from the request.
//
// It checks both the query parameter and form value for "return", validates
// the URL is safe (not an open redirect) and applies opts.
//
//	dest := navigation.SafeBackURL(r, navigation.AfterSignIn)
func SafeBackURL(r *http.Request, opts BackURLOptions) string {
	ret := query.Get(r, "return")
	if ret == "" {
		ret = strings.TrimSpace(r.FormValue("return"))
	}
	return Clean(ret, opts)
}

// Clean validates a return URL obtained elsewhere (e.g., held in the session).
func Clean(ret string, opts BackURLOptions) string {
	ret = urlutil.SafeReturn(ret, "", "")
	if ret == "" {
		return opts.Fallback
	}
	if opts.AllowedPrefix != "" && !strings.HasPrefix(ret, opts.AllowedPrefix) {
		return opts.Fallback
	}
	path := ret
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, excluded := range opts.ExcludedPrefixes {
		if path == excluded || strings.HasPrefix(path, excluded+"/") {
			return opts.Fallback
		}
	}
	return ret
}

// Common back URL configurations.
var (
	// AfterSignIn is where a verified magic link lands.
	AfterSignIn = BackURLOptions{
		ExcludedPrefixes: []string{"/auth", "/logout"},
		Fallback:         "/dashboard",
	}

	// AfterConsent returns a plain form post to the page showing the banner.
	AfterConsent = BackURLOptions{
		ExcludedPrefixes: []string{"/consent", "/logout"},
		Fallback:         "/",
	}
)
