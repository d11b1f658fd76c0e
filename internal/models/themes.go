// internal/models/themes.go
package models

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Theme colors often back larger UI elements, not body text, so we use the AA large-text threshold.
const wcagAAMinContrastRatio = 3.0
const wcagAAContrastNote = "WCAG AA for large text/UI components"
const maxThemeNameLength = 100
const darkTextColor = "#000000"
const lightTextColor = "#FFFFFF"
const defaultThemePrimary = "#1f2937"
const defaultThemeSecondary = "#e5e7eb"
const defaultThemeTertiary = "#f9fafb"
const defaultThemeAccent = "#2563eb"
const defaultThemeHighlight = "#16a34a"

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
var themeNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ()-]*$`)

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// Theme is a page palette. Highlight marks "open", Accent marks "closed".
type Theme struct {
	Name           string `json:"name"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	TertiaryColor  string `json:"tertiaryColor"`
	AccentColor    string `json:"accentColor"`
	HighlightColor string `json:"highlightColor"`
}

func DefaultTheme() Theme {
	return Theme{
		Name:           "",
		PrimaryColor:   defaultThemePrimary,
		SecondaryColor: defaultThemeSecondary,
		TertiaryColor:  defaultThemeTertiary,
		AccentColor:    defaultThemeAccent,
		HighlightColor: defaultThemeHighlight,
	}
}

func (t Theme) Validate() error {
	trimmedName := strings.TrimSpace(t.Name)
	if trimmedName == "" {
		return fmt.Errorf("name is required")
	}
	if trimmedName != t.Name {
		return fmt.Errorf("name must not have leading or trailing whitespace")
	}
	if len(trimmedName) > maxThemeNameLength {
		return fmt.Errorf("name must be %d characters or fewer", maxThemeNameLength)
	}
	if !themeNameRegex.MatchString(trimmedName) {
		return fmt.Errorf("name may only contain letters, numbers, spaces, hyphens, and parentheses")
	}

	colorFields := []struct {
		name  string
		value string
	}{
		{"primary_color", t.PrimaryColor},
		{"secondary_color", t.SecondaryColor},
		{"tertiary_color", t.TertiaryColor},
		{"accent_color", t.AccentColor},
		{"highlight_color", t.HighlightColor},
	}

	for _, field := range colorFields {
		if !hexColorRegex.MatchString(field.value) {
			return fmt.Errorf("%s must be a 6-digit hex color like #AABBCC", field.name)
		}
		if err := validateTextContrast(field.name, field.value); err != nil {
			return err
		}
	}

	return nil
}

// TextColorFor picks black or white text, whichever contrasts more with background.
func TextColorFor(background string) string {
	dark, err := contrastRatio(darkTextColor, background)
	if err != nil {
		return darkTextColor
	}
	light, err := contrastRatio(lightTextColor, background)
	if err != nil {
		return darkTextColor
	}
	if light > dark {
		return lightTextColor
	}
	return darkTextColor
}

// ThemeSet is the ordered list of themes a viewer can cycle through.
type ThemeSet struct {
	Themes  []Theme
	Default string
}

// Lookup finds a theme by name, falling back to the default theme.
func (s ThemeSet) Lookup(name string) Theme {
	for _, theme := range s.Themes {
		if theme.Name == name {
			return theme
		}
	}
	for _, theme := range s.Themes {
		if theme.Name == s.Default {
			return theme
		}
	}
	if len(s.Themes) > 0 {
		return s.Themes[0]
	}
	return DefaultTheme()
}

// Next returns the theme after name, wrapping around. Unknown names start
// from the default.
func (s ThemeSet) Next(name string) Theme {
	if len(s.Themes) == 0 {
		return DefaultTheme()
	}
	current := s.Lookup(name)
	for i, theme := range s.Themes {
		if theme.Name == current.Name {
			return s.Themes[(i+1)%len(s.Themes)]
		}
	}
	return s.Themes[0]
}

func validateTextContrast(colorName, backgroundColor string) error {
	textColors := []string{darkTextColor, lightTextColor}
	bestRatio := 0.0
	bestText := ""
	for _, textColor := range textColors {
		ratio, err := contrastRatio(textColor, backgroundColor)
		if err != nil {
			return err
		}
		if ratio > bestRatio {
			bestRatio = ratio
			bestText = textColor
		}
	}
	if bestRatio < wcagAAMinContrastRatio {
		return fmt.Errorf(
			"%s must have contrast ratio >= %.1f with #000000 or #FFFFFF text (%s); best is %s at %.2f",
			colorName,
			wcagAAMinContrastRatio,
			wcagAAContrastNote,
			bestText,
			bestRatio,
		)
	}
	return nil
}

func contrastRatio(textColor, backgroundColor string) (float64, error) {
	textL, err := relativeLuminance(textColor)
	if err != nil {
		return 0, err
	}
	backgroundL, err := relativeLuminance(backgroundColor)
	if err != nil {
		return 0, err
	}
	lightest := math.Max(textL, backgroundL)
	darkest := math.Min(textL, backgroundL)
	return (lightest + 0.05) / (darkest + 0.05), nil
}

func relativeLuminance(hexColor string) (float64, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return 0, err
	}

	rl := srgbToLinear(r)
	gl := srgbToLinear(g)
	bl := srgbToLinear(b)

	return 0.2126*rl + 0.7152*gl + 0.0722*bl, nil
}

func parseHexColor(hexColor string) (float64, float64, float64, error) {
	if !hexColorRegex.MatchString(hexColor) {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	hex := strings.TrimPrefix(hexColor, "#")
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	r := float64((value >> 16) & 0xFF)
	g := float64((value >> 8) & 0xFF)
	b := float64(value & 0xFF)

	return r / 255, g / 255, b / 255, nil
}

func srgbToLinear(value float64) float64 {
	if value <= 0.03928 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}
