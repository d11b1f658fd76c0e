package request

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/display"
)

const (
	TimezoneParam  = "tz"
	TimezoneHeader = "X-Timezone"
	TimezoneCookie = "viewer_tz"
)

// ViewerTimezone returns the IANA zone name the viewer asked for, checking the
// tz query parameter, tz in the HX-Current-URL header, the X-Timezone header
// and the viewer_tz cookie, in that order. Empty when none is set.
func ViewerTimezone(r *http.Request) string {
	if name := strings.TrimSpace(r.URL.Query().Get(TimezoneParam)); name != "" {
		return name
	}

	if name := timezoneFromCurrentURL(r); name != "" {
		return name
	}

	if name := strings.TrimSpace(r.Header.Get(TimezoneHeader)); name != "" {
		return name
	}

	if cookie, err := r.Cookie(TimezoneCookie); err == nil {
		if name, err := url.QueryUnescape(cookie.Value); err == nil {
			return strings.TrimSpace(name)
		}
	}

	return ""
}

// ResolveViewer loads the requested viewer zone, or returns fallback when the
// request names none. Unknown zone names are an error.
func ResolveViewer(r *http.Request, fallback display.Viewer) (display.Viewer, error) {
	name := ViewerTimezone(r)
	if name == "" {
		return fallback, nil
	}
	return display.ResolveViewer(name)
}

func timezoneFromCurrentURL(r *http.Request) string {
	currentURL := strings.TrimSpace(r.Header.Get("HX-Current-URL"))
	if currentURL == "" {
		return ""
	}

	parsed, err := url.Parse(currentURL)
	if err != nil {
		log.Ctx(r.Context()).
			Debug().
			Err(err).
			Str("hx_current_url", currentURL).
			Msg("Failed to parse HX-Current-URL")
		return ""
	}

	return strings.TrimSpace(parsed.Query().Get(TimezoneParam))
}
