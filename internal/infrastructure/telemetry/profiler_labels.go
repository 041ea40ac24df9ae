package telemetry

import (
	"context"
	"slices"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
	ProfilingLabelOperation = "operation"
)

// maxLabelValueLength caps label values
const maxLabelValueLength = 128

// excludedLabels are per-request values and never reach the profiler
var excludedLabels = map[string]bool{
	"request_id":  true,
	"trace_id":    true,
	"span_id":     true,
	"customer_id": true,
	"email":       true,
}

// WithProfilingLabels runs fn with pprof labels attached, so CPU and
// allocation samples taken inside fn can be filtered by them in Pyroscope.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// labelPairs flattens labels into sorted key/value pairs, dropping empty and
// excluded entries and truncating long values.
func labelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k == "" || v == "" || excludedLabels[k] {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > maxLabelValueLength {
			v = v[:maxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}
