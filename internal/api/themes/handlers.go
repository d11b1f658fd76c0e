// internal/api/themes/handlers.go
package themes

import (
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/codr1/openhours/internal/api/apiutil"
	"github.com/codr1/openhours/internal/models"
	"github.com/codr1/openhours/internal/ui"
)

var (
	themeSet *models.ThemeSet
	themesMu sync.RWMutex
)

type themeResponse struct {
	models.Theme
	IsActive bool `json:"isActive"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(themes models.ThemeSet) {
	themesMu.Lock()
	defer themesMu.Unlock()
	themeSet = &themes
}

// GET /api/v1/ui/themes
func HandleThemesList(w http.ResponseWriter, r *http.Request) {
	themes, ok := loadThemes(w, r)
	if !ok {
		return
	}

	state := ui.FromRequest(r, themes)
	response := make([]themeResponse, 0, len(themes.Themes))
	for _, theme := range themes.Themes {
		response = append(response, themeResponse{Theme: theme, IsActive: theme.Name == state.Theme.Name})
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, response); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write themes response")
	}
}

// POST /api/v1/ui/theme
//
// Selects the theme named by the "name" form value, or the next theme when
// none is given.
func HandleThemeCycle(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	themes, ok := loadThemes(w, r)
	if !ok {
		return
	}

	state := ui.FromRequest(r, themes)
	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		theme := themes.Lookup(name)
		if theme.Name != name {
			http.Error(w, "Unknown theme: "+name, http.StatusBadRequest)
			return
		}
		state.Theme = theme
	} else {
		state = state.CycleTheme(themes)
	}
	state.Save(w)

	logger.Debug().Str("theme", state.Theme.Name).Msg("Theme selected")

	if apiutil.IsHTMXRequest(r) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.WriteJSON(w, http.StatusOK, themeResponse{Theme: state.Theme, IsActive: true}); err != nil {
			logger.Error().Err(err).Msg("Failed to write theme response")
		}
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func loadThemes(w http.ResponseWriter, r *http.Request) (models.ThemeSet, bool) {
	themesMu.RLock()
	defer themesMu.RUnlock()
	if themeSet == nil {
		log.Ctx(r.Context()).Error().Msg("Themes not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return models.ThemeSet{}, false
	}
	return *themeSet, true
}
