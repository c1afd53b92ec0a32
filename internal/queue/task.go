package queue

import "fmt"

// Task is an analysis job enqueued by the API server and consumed by
// the worker. The analysis row in Postgres is the source of truth; the
// task only carries enough to claim and trace it.
type Task struct {
	AnalysisID int64
	BookID     int64
	Kind       string
	TraceID    *string
	Attempt    int
}

// ProgressStreamName is the per-analysis Redis stream the worker
// publishes stage events to and the SSE handler reads from.
func ProgressStreamName(analysisID int64) string {
	return fmt.Sprintf("analysis-stream:%d", analysisID)
}
