package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codr1/openhours/internal/models"
)

func loadThemes(t *testing.T) models.ThemeSet {
	t.Helper()
	themes, err := models.LoadThemes("")
	if err != nil {
		t.Fatalf("load themes: %v", err)
	}
	return themes
}

func TestFromRequest_Defaults(t *testing.T) {
	themes := loadThemes(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	state := FromRequest(req, themes)
	if state.Theme.Name != "Daylight" || state.NavOpen {
		t.Fatalf("state: %+v", state)
	}
}

func TestState_RoundTrip(t *testing.T) {
	themes := loadThemes(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	state := FromRequest(req, themes).CycleTheme(themes).CycleTheme(themes).ToggleNav()
	if state.Theme.Name != "High Contrast" || !state.NavOpen {
		t.Fatalf("state: %+v", state)
	}

	recorder := httptest.NewRecorder()
	state.Save(recorder)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range recorder.Result().Cookies() {
		next.AddCookie(cookie)
	}
	restored := FromRequest(next, themes)
	if restored.Theme.Name != "High Contrast" || !restored.NavOpen {
		t.Fatalf("restored: %+v", restored)
	}
}

func TestFromRequest_UnknownTheme(t *testing.T) {
	themes := loadThemes(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ThemeCookie, Value: "Neon"})
	req.AddCookie(&http.Cookie{Name: NavCookie, Value: "sideways"})

	state := FromRequest(req, themes)
	if state.Theme.Name != "Daylight" || state.NavOpen {
		t.Fatalf("state: %+v", state)
	}
}
