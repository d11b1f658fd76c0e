// Package ui carries per-viewer presentation state (theme, navigation menu)
// between requests. It is handed to the layout explicitly and never reaches
// the schedule engine.
package ui

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codr1/openhours/internal/models"
)

const (
	ThemeCookie   = "ui_theme"
	NavCookie     = "ui_nav"
	cookieMaxAge  = 365 * 24 * time.Hour
	navOpenMarker = "open"
)

type State struct {
	Theme   models.Theme
	NavOpen bool
}

// FromRequest reads state cookies, resolving the theme against themes.
func FromRequest(r *http.Request, themes models.ThemeSet) State {
	state := State{Theme: themes.Lookup(themes.Default)}
	if cookie, err := r.Cookie(ThemeCookie); err == nil {
		if name, err := url.QueryUnescape(cookie.Value); err == nil {
			state.Theme = themes.Lookup(strings.TrimSpace(name))
		}
	}
	if cookie, err := r.Cookie(NavCookie); err == nil {
		state.NavOpen = cookie.Value == navOpenMarker
	}
	return state
}

// CycleTheme moves to the next theme in themes.
func (s State) CycleTheme(themes models.ThemeSet) State {
	s.Theme = themes.Next(s.Theme.Name)
	return s
}

// ToggleNav flips the navigation menu.
func (s State) ToggleNav() State {
	s.NavOpen = !s.NavOpen
	return s
}

// Save writes the state back as cookies.
func (s State) Save(w http.ResponseWriter) {
	nav := "closed"
	if s.NavOpen {
		nav = navOpenMarker
	}
	http.SetCookie(w, newCookie(ThemeCookie, url.QueryEscape(s.Theme.Name)))
	http.SetCookie(w, newCookie(NavCookie, nav))
}

func newCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
