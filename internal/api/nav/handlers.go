// internal/api/nav/handlers.go
package nav

import (
	"net/http"
	"sync"

	"github.com/codr1/openhours/internal/api/apiutil"
	"github.com/codr1/openhours/internal/models"
	"github.com/codr1/openhours/internal/templates/layouts"
	"github.com/codr1/openhours/internal/ui"
)

var (
	themes   models.ThemeSet
	themesMu sync.RWMutex
)

func InitHandlers(set models.ThemeSet) {
	themesMu.Lock()
	defer themesMu.Unlock()
	themes = set
}

// POST /api/v1/nav/toggle
func HandleToggle(w http.ResponseWriter, r *http.Request) {
	state := ui.FromRequest(r, loadThemes()).ToggleNav()
	state.Save(w)

	if !apiutil.IsHTMXRequest(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	apiutil.RenderHTMLComponent(r.Context(), w, layouts.NavMenu(state.NavOpen), nil, "Failed to render navigation menu", "Failed to render menu")
}

// GET /api/v1/nav/menu
func HandleMenu(w http.ResponseWriter, r *http.Request) {
	state := ui.FromRequest(r, loadThemes())
	apiutil.RenderHTMLComponent(r.Context(), w, layouts.NavMenu(state.NavOpen), nil, "Failed to render navigation menu", "Failed to render menu")
}

func loadThemes() models.ThemeSet {
	themesMu.RLock()
	defer themesMu.RUnlock()
	return themes
}
