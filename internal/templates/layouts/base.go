package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/codr1/openhours/internal/ui"
)

const (
	NavMenuID    = "nav-menu"
	htmxScriptJS = "https://unpkg.com/htmx.org@1.9.12"
)

const baseStyles = `body{margin:0;font-family:system-ui,sans-serif;background:var(--theme-secondary);color:var(--theme-tertiary)}
header{display:flex;gap:.5rem;align-items:center;padding:.75rem 1rem;background:var(--theme-primary);color:var(--theme-on-primary)}
header h1{flex:1;font-size:1.25rem;margin:0}
main{max-width:48rem;margin:0 auto;padding:1rem}
nav[hidden]{display:none}
.badge-open{color:var(--theme-accent)}
.badge-closed{color:var(--theme-highlight)}
table{width:100%;border-collapse:collapse}
td,th{padding:.25rem .5rem;text-align:left}`

// Base wraps content in the page shell. Presentation state arrives explicitly
// and is only used for the theme palette and the navigation menu.
func Base(title string, content templ.Component, state ui.State) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">"+
			"<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>"+
			templ.EscapeString(title)+"</title><script src=\""+htmxScriptJS+"\"></script><style>"+getThemeCssVars(state.Theme)+"\n"+baseStyles+
			"</style></head><body><header><button type=\"button\" hx-post=\"/api/v1/nav/toggle\" hx-target=\"#"+NavMenuID+
			"\" hx-swap=\"outerHTML\" aria-label=\"Menu\">&#9776;</button><h1>"+templ.EscapeString(title)+"</h1>"+
			"<button type=\"button\" hx-post=\"/api/v1/ui/theme\" hx-swap=\"none\">Theme: "+
			templ.EscapeString(state.Theme.Name)+"</button></header>"); err != nil {
			return err
		}
		if err := NavMenu(state.NavOpen).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "<main>"); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</main></body></html>")
		return err
	})
}

// NavMenu is the collapsible navigation block swapped by the toggle button.
func NavMenu(open bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hidden := " hidden"
		if open {
			hidden = ""
		}
		_, err := io.WriteString(w, "<nav id=\""+NavMenuID+"\""+hidden+"><ul>"+
			"<li><a href=\"/\">Hours</a></li>"+
			"<li><a href=\"/api/v1/hours/next-opening.ics\">Add next opening to calendar</a></li>"+
			"<li><a href=\"/api/v1/hours/week?format=json\">Weekly hours (JSON)</a></li>"+
			"</ul></nav>")
		return err
	})
}
