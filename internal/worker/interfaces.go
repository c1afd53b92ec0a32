package worker

import (
	"context"

	"fablelens.app/analyzer/internal/analysis"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// AnalysisEngine abstracts the generation stages for testability.
type AnalysisEngine interface {
	Run(ctx context.Context, a *model.Analysis, novelText, baseSummary string) (*analysis.Result, error)
}
