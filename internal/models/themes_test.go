package models

import (
	"strings"
	"testing"
)

func TestIsHexColor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "empty", value: "", want: false},
		{name: "whitespace", value: "   ", want: false},
		{name: "missing_hash", value: "AABBCC", want: false},
		{name: "short_hex", value: "#ABC", want: false},
		{name: "long_hex", value: "#AABBCCDD", want: false},
		{name: "invalid_char", value: "#AABBCG", want: false},
		{name: "lowercase_hex", value: "#aabbcc", want: true},
		{name: "uppercase_hex", value: "#AABBCC", want: true},
		{name: "trimmed_hex", value: "  #AABBCC  ", want: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsHexColor(test.value); got != test.want {
				t.Fatalf("IsHexColor(%q) = %t, want %t", test.value, got, test.want)
			}
		})
	}
}

func TestLoadThemes_Builtin(t *testing.T) {
	set, err := LoadThemes("")
	if err != nil {
		t.Fatalf("LoadThemes() error = %v", err)
	}
	if len(set.Themes) != 3 {
		t.Fatalf("theme count = %d, want 3", len(set.Themes))
	}
	if set.Default != "Daylight" {
		t.Fatalf("default = %q, want Daylight", set.Default)
	}
	for _, theme := range set.Themes {
		if strings.HasSuffix(theme.Name, defaultThemeSuffix) {
			t.Fatalf("theme name still contains DEFAULT suffix: %q", theme.Name)
		}
	}
}

func TestParseThemes_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "empty", body: "\n\n", wantErr: "empty"},
		{name: "short", body: "Solo\n#000000\n", wantErr: "multiples of 6"},
		{
			name:    "bad_color",
			body:    "Broken\n#000000\n#ffffff\n#zzzzzz\n#000000\n#000000\n",
			wantErr: "tertiary_color",
		},
		{
			name:    "two_defaults",
			body:    "A DEFAULT\n#000000\n#000000\n#000000\n#000000\n#000000\nB DEFAULT\n#000000\n#000000\n#000000\n#000000\n#000000\n",
			wantErr: "multiple DEFAULT",
		},
		{
			name:    "duplicate",
			body:    "A\n#000000\n#000000\n#000000\n#000000\n#000000\nA\n#000000\n#000000\n#000000\n#000000\n#000000\n",
			wantErr: "duplicate",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseThemes(strings.NewReader(test.body))
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, test.wantErr)
			}
		})
	}
}

func TestThemeSet_Next(t *testing.T) {
	set, err := LoadThemes("")
	if err != nil {
		t.Fatalf("load themes: %v", err)
	}

	order := []string{"Evening", "High Contrast", "Daylight", "Evening"}
	current := set.Default
	for _, want := range order {
		next := set.Next(current)
		if next.Name != want {
			t.Fatalf("Next(%q) = %q, want %q", current, next.Name, want)
		}
		current = next.Name
	}

	if set.Next("Unknown").Name != "Evening" {
		t.Fatalf("unknown theme should cycle from the default")
	}
	if set.Lookup("Unknown").Name != "Daylight" {
		t.Fatalf("lookup should fall back to default")
	}
	if (ThemeSet{}).Next("x").PrimaryColor != defaultThemePrimary {
		t.Fatalf("empty set should return the default palette")
	}
}

func TestTextColorFor(t *testing.T) {
	if got := TextColorFor("#000000"); got != lightTextColor {
		t.Fatalf("black background: %s", got)
	}
	if got := TextColorFor("#ffff00"); got != darkTextColor {
		t.Fatalf("yellow background: %s", got)
	}
}
