package request

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/codr1/openhours/internal/display"
)

func TestViewerTimezone_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header map[string]string
		cookie string
		want   string
	}{
		{name: "none", target: "/", want: ""},
		{name: "query", target: "/?tz=Asia/Tokyo", header: map[string]string{TimezoneHeader: "Europe/Paris"}, want: "Asia/Tokyo"},
		{
			name:   "hx_current_url",
			target: "/api/v1/hours/badge",
			header: map[string]string{"HX-Current-URL": "https://example.com/?tz=Europe%2FBerlin", TimezoneHeader: "Europe/Paris"},
			want:   "Europe/Berlin",
		},
		{name: "bad_hx_current_url", target: "/", header: map[string]string{"HX-Current-URL": "%zz", TimezoneHeader: "Europe/Paris"}, want: "Europe/Paris"},
		{name: "header", target: "/", header: map[string]string{TimezoneHeader: " Europe/Paris "}, cookie: "UTC", want: "Europe/Paris"},
		{name: "cookie", target: "/", cookie: "America%2FChicago", want: "America/Chicago"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, test.target, nil)
			for key, value := range test.header {
				req.Header.Set(key, value)
			}
			if test.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TimezoneCookie, Value: test.cookie})
			}
			if got := ViewerTimezone(req); got != test.want {
				t.Fatalf("ViewerTimezone() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestResolveViewer(t *testing.T) {
	fallback := display.NewViewer(time.UTC)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	viewer, err := ResolveViewer(req, fallback)
	if err != nil {
		t.Fatalf("ResolveViewer() error = %v", err)
	}
	if viewer.Label != "UTC" {
		t.Fatalf("label = %q, want fallback UTC", viewer.Label)
	}

	req = httptest.NewRequest(http.MethodGet, "/?tz=Asia/Kolkata", nil)
	viewer, err = ResolveViewer(req, fallback)
	if err != nil {
		t.Fatalf("ResolveViewer() error = %v", err)
	}
	if viewer.Label != "Asia/Kolkata" {
		t.Fatalf("label = %q, want Asia/Kolkata", viewer.Label)
	}

	req = httptest.NewRequest(http.MethodGet, "/?tz=Mars/Olympus", nil)
	if _, err := ResolveViewer(req, fallback); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}
