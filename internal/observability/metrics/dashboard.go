// Package metrics emits the dashboard's StatsD metrics with consistent names and tags.
package metrics

import (
	"time"

	obserrors "github.com/ai-ikigai/admin-dashboard/internal/observability/errors"
	"github.com/ai-ikigai/admin-dashboard/internal/observability/statsd"
)

// Metric names.
const (
	FetchTotal    = "dashboard.fetch"
	FetchDuration = "dashboard.fetch.duration"
	Navigate      = "dashboard.navigate"
	LoadStale     = "dashboard.load.stale"
	Action        = "dashboard.action"
)

// Fetch outcomes.
const (
	OutcomeLive     = "live"
	OutcomeFallback = "fallback"
)

// Result constants for action tagging.
const (
	ResultSuccess  = "success"
	ResultError    = "error"
	ResultDeclined = "declined"
)

// FetchMetric describes one resource read.
type FetchMetric struct {
	Resource string
	Outcome  string
	Duration time.Duration
	Err      error
}

// EmitFetch records a resource read and its latency.
func EmitFetch(sink statsd.Sink, in FetchMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"resource": in.Resource, "outcome": in.Outcome}
	if in.Err != nil {
		tags["error_class"] = obserrors.Classify(in.Err)
	}
	sink.Count(FetchTotal, 1, tags)
	if in.Duration > 0 {
		sink.Timing(FetchDuration, in.Duration, CloneTags(tags))
	}
}

// EmitNavigate records a section navigation. ok is false for unknown sections.
func EmitNavigate(sink statsd.Sink, section string, ok bool) {
	if sink == nil {
		return
	}
	result := ResultSuccess
	if !ok {
		result = ResultError
	}
	sink.Count(Navigate, 1, map[string]string{"section": section, "result": result})
}

// EmitStaleLoad records a discarded load result.
func EmitStaleLoad(sink statsd.Sink, section string) {
	if sink == nil {
		return
	}
	sink.Count(LoadStale, 1, map[string]string{"section": section})
}

// ActionMetric describes one user-triggered action.
type ActionMetric struct {
	Action   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitAction records an action outcome.
func EmitAction(sink statsd.Sink, in ActionMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"action": in.Action, "result": in.Result}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}
	sink.Count(Action, 1, tags)
	if in.Duration > 0 {
		sink.Timing(Action+".duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
