package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	"github.com/ai-ikigai/admin-dashboard/internal/render"
)

func runSections(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("sections", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Section\tTitle\tContainer\tResources"); err != nil {
		return fmt.Errorf("write sections header: %w", err)
	}
	for _, s := range dashboard.Sections() {
		kinds := s.Resources()
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		if err := writef(w, "%s\t%s\t%s\t%s\n", s, s.Title(), s.ContainerID(), strings.Join(names, ",")); err != nil {
			return fmt.Errorf("write section %s: %w", s, err)
		}
	}
	return w.Flush()
}

type renderOptions struct {
	Query   string
	Status  string
	Period  string
	Compact bool
}

func runRender(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts renderOptions
	fs.StringVar(&opts.Query, "q", "", "Search filter")
	fs.StringVar(&opts.Status, "status", "", "Status filter")
	fs.StringVar(&opts.Period, "period", "", "Period filter for analyses")
	fs.BoolVar(&opts.Compact, "compact", false, "Print compact JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("render requires exactly one section id")
	}
	section, ok := dashboard.ParseSection(fs.Arg(0))
	if !ok {
		return fmt.Errorf("unknown section %q", fs.Arg(0))
	}

	data := render.Data{}
	for _, kind := range section.Resources() {
		data[kind] = dashboard.Fallback(kind)
	}
	filter := render.FilterFromQuery(url.Values{
		render.ParamSearch: {opts.Query},
		render.ParamStatus: {opts.Status},
		render.ParamPeriod: {opts.Period},
	}, time.Now())
	view, err := render.Section(section, data, filter)
	if err != nil {
		return fmt.Errorf("render %s: %w", section, err)
	}

	enc := json.NewEncoder(ctx.Out)
	if !opts.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(view)
}
