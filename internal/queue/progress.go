package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Progress stages published while an analysis runs. The SSE handler
// relays them to the UI; completed and failed are terminal.
const (
	StageSummarizing = "summarizing"
	StageTranslating = "translating"
	StageRecounting  = "recounting"
	StageCompleted   = "completed"
	StageFailed      = "failed"
)

const (
	progressMaxLen = 64
	progressTTL    = time.Hour
)

// ProgressPublisher emits stage events for a running analysis.
// Publishing is best-effort: a Redis hiccup must never fail the job.
type ProgressPublisher interface {
	Publish(ctx context.Context, analysisID int64, stage, detail string)
}

type redisProgressPublisher struct {
	client *redis.Client
}

func NewRedisProgressPublisher(client *redis.Client) ProgressPublisher {
	return &redisProgressPublisher{client: client}
}

func (p *redisProgressPublisher) Publish(ctx context.Context, analysisID int64, stage, detail string) {
	stream := ProgressStreamName(analysisID)

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: progressMaxLen,
		Approx: true,
		Values: map[string]any{
			"stage":  stage,
			"detail": detail,
			"at":     time.Now().UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		slog.WarnContext(ctx, "failed to publish progress event",
			"error", err,
			"analysis_id", analysisID,
			"stage", stage)
		return
	}

	if stage == StageCompleted || stage == StageFailed {
		// The stream has served its purpose once the job is terminal;
		// let it expire instead of accumulating forever.
		if err := p.client.Expire(ctx, stream, progressTTL).Err(); err != nil {
			slog.WarnContext(ctx, "failed to expire progress stream",
				"error", err,
				"analysis_id", analysisID)
		}
	}
}
