package layouts

import (
	"fmt"
	"strings"

	"github.com/codr1/openhours/internal/models"
)

func getThemeCssVars(theme models.Theme) string {
	defaultTheme := models.DefaultTheme()
	primary := themeColorOrDefault(theme.PrimaryColor, defaultTheme.PrimaryColor)
	secondary := themeColorOrDefault(theme.SecondaryColor, defaultTheme.SecondaryColor)
	tertiary := themeColorOrDefault(theme.TertiaryColor, defaultTheme.TertiaryColor)
	accent := themeColorOrDefault(theme.AccentColor, defaultTheme.AccentColor)
	highlight := themeColorOrDefault(theme.HighlightColor, defaultTheme.HighlightColor)

	return fmt.Sprintf(
		":root{--theme-primary:%s;--theme-secondary:%s;--theme-tertiary:%s;--theme-accent:%s;--theme-highlight:%s;--theme-on-primary:%s;}",
		primary,
		secondary,
		tertiary,
		accent,
		highlight,
		models.TextColorFor(primary),
	)
}

func themeColorOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	if !models.IsHexColor(trimmed) {
		return fallback
	}
	return trimmed
}
