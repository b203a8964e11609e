// Package core holds the template helpers shared by every dashboard template.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"maps"
	"strings"

	"github.com/ai-ikigai/admin-dashboard/internal/render"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template **template.Template
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"contains":   strings.Contains,
		"badgeClass": BadgeClass,
		"actionVals": ActionVals,
		"toJSON":     toJSON,
	}
	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	// renderNamed executes a template chosen at run time, which the
	// {{template}} action cannot do.
	funcs["renderNamed"] = func(name string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, name, data); err != nil {
			return "", err
		}
		// #nosec G203 - The HTML here is rendered by our own trusted templates (html/template),
		// and is embedded back into the same template set. User-provided values were already
		// auto-escaped during ExecuteTemplate above.
		return template.HTML(buf.String()), nil
	}
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// BadgeClass returns the CSS classes of a status badge.
func BadgeClass(b *render.Badge) string {
	if b == nil {
		return ""
	}
	return "status-badge status-" + b.Class
}

// ActionVals returns the hx-vals JSON of an action. POST actions always
// carry confirmed=true: the browser only sends them once the hx-confirm or
// hx-prompt dialog was accepted.
func ActionVals(a render.Action) (string, error) {
	vals := make(map[string]string, len(a.Values)+1)
	maps.Copy(vals, a.Values)
	if a.Post() {
		vals["confirmed"] = "true"
	}
	if len(vals) == 0 {
		return "", nil
	}
	return toJSON(vals)
}
