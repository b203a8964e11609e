package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ai-ikigai/admin-dashboard/internal/adapters/backendapi"
	"github.com/ai-ikigai/admin-dashboard/internal/bootstrap"
	"github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"
	"github.com/ai-ikigai/admin-dashboard/internal/service"
)

const defaultProbeConcurrency = 4

type probeOptions struct {
	Token       string
	Concurrency int
	Timeout     time.Duration
	Strict      bool
}

type probeResult struct {
	Kind     dashboard.ResourceKind
	URL      string
	Live     bool
	Duration time.Duration
	Err      error
}

func runProbe(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts probeOptions
	fs.StringVar(&opts.Token, "token", "", "Bearer token sent to the backend (required)")
	fs.IntVar(&opts.Concurrency, "concurrency", defaultProbeConcurrency, "Resources fetched in parallel")
	fs.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Overall probe timeout")
	fs.BoolVar(&opts.Strict, "strict", false, "Fail when any resource falls back")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(opts.Token) == "" {
		return errors.New("--token is required")
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	clientOpts, err := bootstrap.BackendOptions(ctx.Config.Backend, ctx.Logger)
	if err != nil {
		return err
	}
	client, err := backendapi.NewClient(clientOpts)
	if err != nil {
		return fmt.Errorf("build backend client: %w", err)
	}
	extractor, err := bootstrap.NewExtractor(ctx.Config.Backend)
	if err != nil {
		return err
	}

	probeCtx, cancel := context.WithTimeout(ctx.Ctx, opts.Timeout)
	defer cancel()
	results := probeAll(probeCtx, probeDeps{Client: client, Extractor: extractor, Token: opts.Token}, opts.Concurrency)

	fallbacks, err := printProbeResults(ctx, client.BaseURL(), results)
	if err != nil {
		return err
	}
	if opts.Strict && fallbacks > 0 {
		return fmt.Errorf("%d of %d resources fell back", fallbacks, len(results))
	}
	return nil
}

type probeDeps struct {
	Client    *backendapi.Client
	Extractor *service.Extractor
	Token     string
}

// probeAll fetches every resource. A failed fetch is recorded on its result
// and never cancels the others.
func probeAll(ctx context.Context, deps probeDeps, concurrency int) []probeResult {
	kinds := dashboard.Resources()
	results := make([]probeResult, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, kind := range kinds {
		g.Go(func() error {
			results[i] = probeOne(gctx, deps, kind)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func probeOne(ctx context.Context, deps probeDeps, kind dashboard.ResourceKind) probeResult {
	res := probeResult{Kind: kind}
	res.URL, _ = deps.Client.ResolveURL(kind)

	start := time.Now()
	raw, err := deps.Client.Fetch(ctx, kind, deps.Token)
	if err == nil {
		raw, err = deps.Extractor.Apply(kind, raw)
	}
	if err == nil {
		_, err = dashboard.Decode(kind, raw)
	}
	res.Duration = time.Since(start)
	res.Err = err
	res.Live = err == nil
	return res
}

func printProbeResults(ctx *commandContext, baseURL string, results []probeResult) (int, error) {
	if err := writef(ctx.Out, "Backend: %s\n\n", baseURL); err != nil {
		return 0, err
	}
	w := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	if err := writeln(w, "Resource\tOutcome\tDuration\tURL\tDetail"); err != nil {
		return 0, fmt.Errorf("write probe header: %w", err)
	}

	fallbacks := 0
	for _, r := range results {
		outcome, detail := "live", ""
		if !r.Live {
			outcome = "fallback"
			detail = r.Err.Error()
			fallbacks++
		}
		if err := writef(w, "%s\t%s\t%s\t%s\t%s\n",
			r.Kind, outcome, r.Duration.Round(time.Millisecond), r.URL, detail); err != nil {
			return 0, fmt.Errorf("write probe row %s: %w", r.Kind, err)
		}
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return fallbacks, writef(ctx.Out, "\n%d live, %d fallback\n", len(results)-fallbacks, fallbacks)
}
