package core

import "context"

type contextKey string

const ctxKeyRunID contextKey = "pipeline_run_id"

// RunIDHeader carries the pipeline run ID on outbound HTTP fetches so
// upstream access logs can be matched to our own.
const RunIDHeader = "X-Booklist-Run-ID"

// ContextWithRunID adds the pipeline run ID to context.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKeyRunID, runID)
}

// RunIDFromContext extracts the pipeline run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRunID).(string); ok {
		return v
	}
	return ""
}
