package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"net/http"

	httpassets "github.com/ai-ikigai/admin-dashboard/internal/http/assets"
	assetfuncs "github.com/ai-ikigai/admin-dashboard/internal/http/templates/assets"
	corefuncs "github.com/ai-ikigai/admin-dashboard/internal/http/templates/core"
)

// AssetResolver aliases the asset resolver so callers can keep importing httpx.
type AssetResolver = httpassets.AssetResolver

// NewAssetResolverFromFS creates an asset resolver that versions every file of fsys.
func NewAssetResolverFromFS(fsys fs.FS) (*AssetResolver, error) {
	return httpassets.NewAssetResolverFromFS(fsys)
}

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t        *template.Template
	resolver *AssetResolver
	devMode  bool
	logger   *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS          // Filesystem containing templates (required)
	Resolver   *AssetResolver // Asset versions for cache busting (optional)
	DevMode    bool           // Serve bare asset paths
	Logger     *slog.Logger   // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	renderer := &TemplateRenderer{
		resolver: cfg.Resolver,
		devMode:  cfg.DevMode,
		logger:   logger,
	}

	var t *template.Template
	funcs := createTemplateFuncs(&t, renderer)
	var err error
	t, err = template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	renderer.t = t
	return renderer, nil
}

// RenderFull renders the full page (layout + dashboard content).
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.renderTemplate(w, renderParams{Name: tmplLayout, Status: http.StatusOK, Data: data})
}

// RenderPartial renders one named fragment.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, name string, data any) error {
	return r.renderTemplate(w, renderParams{Name: name, Status: http.StatusOK, Data: data})
}

// RenderError renders the error page with the status carried by data.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data ErrorPageData) error {
	status := data.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return r.renderTemplate(w, renderParams{Name: tmplError, Status: status, Data: data})
}

// renderParams groups renderTemplate arguments (≤3 params rule).
type renderParams struct {
	Name   string
	Status int
	Data   any
}

// renderTemplate buffers the output so a failed execution never leaves a
// half-written response.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, p renderParams) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, p.Name, p.Data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", p.Name),
			slog.Any("error", err),
		)
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.Status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", p.Name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// Execute renders name into buf without touching a response.
func (r *TemplateRenderer) Execute(buf *bytes.Buffer, name string, data any) error {
	if err := r.t.ExecuteTemplate(buf, name, data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

func createTemplateFuncs(t **template.Template, renderer *TemplateRenderer) template.FuncMap {
	funcs := template.FuncMap{}
	mergeTemplateFuncs(funcs,
		corefuncs.Funcs(corefuncs.Deps{Template: t}),
		assetfuncs.Funcs(assetfuncs.Options{
			Resolver: renderer.resolver,
			DevMode:  renderer.devMode,
		}),
	)
	return funcs
}

func mergeTemplateFuncs(dst template.FuncMap, sources ...template.FuncMap) {
	for _, src := range sources {
		maps.Copy(dst, src)
	}
}
