package layouts

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/codr1/openhours/internal/models"
	"github.com/codr1/openhours/internal/ui"
)

func TestBase_AppliesState(t *testing.T) {
	theme := models.Theme{
		Name:           "Evening",
		PrimaryColor:   "#1f2937",
		SecondaryColor: "#111827",
		TertiaryColor:  "#f9fafb",
		AccentColor:    "#34d399",
		HighlightColor: "#f87171",
	}
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>body</p>")
		return err
	})

	var b strings.Builder
	if err := Base("Hours & More", content, ui.State{Theme: theme, NavOpen: true}).Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := b.String()

	for _, want := range []string{
		"<title>Hours &amp; More</title>",
		"--theme-primary:#1f2937",
		"--theme-on-primary:#FFFFFF",
		"<nav id=\"" + NavMenuID + "\"><ul>",
		"<main><p>body</p></main>",
		"Theme: Evening",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("layout missing %q:\n%s", want, html)
		}
	}
}

func TestNavMenu_Closed(t *testing.T) {
	var b strings.Builder
	if err := NavMenu(false).Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(b.String(), "<nav id=\""+NavMenuID+"\" hidden>") {
		t.Fatalf("closed menu should be hidden: %s", b.String())
	}
}

func TestThemeColorOrDefault(t *testing.T) {
	if got := themeColorOrDefault("not-a-color", "#000000"); got != "#000000" {
		t.Fatalf("invalid color should fall back, got %s", got)
	}
	if got := themeColorOrDefault(" #abcdef ", "#000000"); got != "#abcdef" {
		t.Fatalf("valid color should be trimmed, got %s", got)
	}
}
