package models

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

const defaultThemeSuffix = " DEFAULT"

// linesPerTheme is the name line followed by the five colors.
const linesPerTheme = 6

//go:embed themes.txt
var builtinThemes string

// LoadThemes reads a themes file, or the built-in themes when path is empty.
func LoadThemes(path string) (ThemeSet, error) {
	if strings.TrimSpace(path) == "" {
		return ParseThemes(strings.NewReader(builtinThemes))
	}
	file, err := os.Open(path)
	if err != nil {
		return ThemeSet{}, fmt.Errorf("open themes file: %w", err)
	}
	defer file.Close()
	return ParseThemes(file)
}

// ParseThemes reads themes in order: a name line (suffix " DEFAULT" marks the
// default) followed by primary, secondary, tertiary, accent and highlight
// colors. Blank lines are ignored.
func ParseThemes(r io.Reader) (ThemeSet, error) {
	lines, err := readNonEmptyLines(r)
	if err != nil {
		return ThemeSet{}, err
	}
	if len(lines) == 0 {
		return ThemeSet{}, fmt.Errorf("themes file is empty")
	}
	if len(lines)%linesPerTheme != 0 {
		return ThemeSet{}, fmt.Errorf("themes file has %d non-empty lines, expected multiples of %d", len(lines), linesPerTheme)
	}

	set := ThemeSet{Themes: make([]Theme, 0, len(lines)/linesPerTheme)}
	seen := make(map[string]bool)
	for i := 0; i < len(lines); i += linesPerTheme {
		name := strings.TrimSpace(lines[i])
		if strings.HasSuffix(name, defaultThemeSuffix) {
			name = strings.TrimSpace(strings.TrimSuffix(name, defaultThemeSuffix))
			if name == "" {
				return ThemeSet{}, fmt.Errorf("theme name missing before DEFAULT at line %d", i+1)
			}
			if set.Default != "" {
				return ThemeSet{}, fmt.Errorf("multiple DEFAULT themes: %q and %q", set.Default, name)
			}
			set.Default = name
		}
		if seen[name] {
			return ThemeSet{}, fmt.Errorf("duplicate theme %q", name)
		}
		seen[name] = true

		theme := Theme{
			Name:           name,
			PrimaryColor:   lines[i+1],
			SecondaryColor: lines[i+2],
			TertiaryColor:  lines[i+3],
			AccentColor:    lines[i+4],
			HighlightColor: lines[i+5],
		}
		if err := theme.Validate(); err != nil {
			return ThemeSet{}, fmt.Errorf("invalid theme %q: %w", name, err)
		}
		set.Themes = append(set.Themes, theme)
	}

	if set.Default == "" {
		set.Default = set.Themes[0].Name
	}
	return set, nil
}

func readNonEmptyLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	lines := []string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read themes file: %w", err)
	}
	return lines, nil
}
