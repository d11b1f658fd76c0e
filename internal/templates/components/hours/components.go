package hours

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/codr1/openhours/internal/display"
)

const (
	BadgeID  = "hours-badge"
	StatusID = "hours-status"
)

// Page is the full hours section: badge, status and weekly table.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<section class=\"hours\"><h2>")
		b.WriteString(templ.EscapeString(data.BusinessName))
		b.WriteString("</h2>")
		if data.Address != "" {
			b.WriteString("<p class=\"address\">")
			b.WriteString(templ.EscapeString(data.Address))
			b.WriteString("</p>")
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := Badge(data.Badge, data.RefreshQuery, data.RefreshEvery).Render(ctx, w); err != nil {
			return err
		}
		if err := Status(data.Status, data.RefreshQuery, data.RefreshEvery).Render(ctx, w); err != nil {
			return err
		}
		if err := WeekTable(data.Week).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "<p class=\"timezone-pill\">"+templ.EscapeString(data.TimezoneText)+"</p></section>")
		return err
	})
}

// Badge renders the home badge fragment. It polls itself when every is set.
func Badge(badge display.Badge, query, every string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		class := "badge-closed"
		if badge.Open {
			class = "badge-open"
		}
		var b strings.Builder
		b.WriteString("<div id=\"" + BadgeID + "\" class=\"badge " + class + "\"")
		writePolling(&b, "/api/v1/hours/badge", query, every)
		b.WriteString("><strong>")
		b.WriteString(templ.EscapeString(badge.Main))
		b.WriteString("</strong><span>")
		b.WriteString(templ.EscapeString(badge.Sub))
		b.WriteString("</span></div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Status renders the business page status block.
func Status(line display.StatusLine, query, every string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<div id=\"" + StatusID + "\" class=\"status\"")
		writePolling(&b, "/api/v1/hours/status", query, every)
		b.WriteString("><p>Status: <strong>")
		b.WriteString(templ.EscapeString(line.State))
		b.WriteString("</strong></p>")
		if line.Open && line.ClosesAt != "" {
			b.WriteString("<p>Closes: ")
			b.WriteString(templ.EscapeString(line.ClosesAt))
			b.WriteString("</p>")
		}
		if !line.Open {
			b.WriteString("<p>Next opening: ")
			b.WriteString(templ.EscapeString(line.NextOpening))
			b.WriteString("</p>")
		}
		b.WriteString("</div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// WeekTable renders the seven-day table in the viewer's zone.
func WeekTable(rows []display.WeekRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<table class=\"week\"><thead><tr><th>Day</th><th>Date</th><th>Hours</th></tr></thead><tbody>")
		for _, row := range rows {
			b.WriteString("<tr><td>")
			b.WriteString(templ.EscapeString(row.Day))
			b.WriteString("</td><td>")
			b.WriteString(templ.EscapeString(row.Date))
			b.WriteString("</td><td>")
			b.WriteString(templ.EscapeString(row.Hours))
			b.WriteString("</td></tr>")
		}
		b.WriteString("</tbody></table>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writePolling(b *strings.Builder, path, query, every string) {
	if every == "" {
		return
	}
	b.WriteString(" hx-get=\"")
	b.WriteString(templ.EscapeString(path + query))
	b.WriteString("\" hx-trigger=\"every ")
	b.WriteString(templ.EscapeString(every))
	b.WriteString("\" hx-swap=\"outerHTML\"")
}
