// Package admindashboard embeds the dashboard templates and static assets.
package admindashboard

import "embed"

// In dev mode both trees are read from disk so edits show up without a rebuild.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
