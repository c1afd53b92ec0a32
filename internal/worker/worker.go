package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"fablelens.app/analyzer/common/logger"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/queue"
	"fablelens.app/analyzer/internal/store"
)

// Mirrors service.StoreProvider - defined here to avoid import cycles.
type StoreProvider interface {
	Books() store.BookStore
	Analyses() store.AnalysisStore
}

// Mirrors service.TxRunner - defined here to avoid import cycles.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type Config struct {
	MaxAttempts int
}

type Worker struct {
	consumer Consumer
	txRunner TxRunner
	engine   AnalysisEngine
	progress queue.ProgressPublisher
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, txRunner TxRunner, engine AnalysisEngine, progress queue.ProgressPublisher, cfg Config) *Worker {
	return &Worker{
		consumer:  consumer,
		txRunner:  txRunner,
		engine:    engine,
		progress:  progress,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"analysis_id", msg.AnalysisID)
			w.handleFailedMessage(ctx, msg, err)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"analysis_id", msg.AnalysisID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// Exported so it can be reused by the reclaimer.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	sc := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.process_message",
		trace.WithSpanKind(trace.SpanKindConsumer))
	defer sc.End()
	ctx = sc.Context()

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		AnalysisID: &msg.AnalysisID,
		BookID:     &msg.BookID,
		MessageID:  &msg.ID,
		Kind:       &msg.Kind,
		Component:  "analyzer.worker",
	})

	slog.InfoContext(ctx, "processing message", "attempt", msg.Attempt)

	var (
		engineErr error
		final     *model.Analysis
	)

	// Single transaction: claim -> generate -> complete. An engine
	// failure is recorded via SetFailed and the transaction still
	// commits; only infrastructure errors roll back and skip the ack so
	// Redis redelivers.
	txErr := w.txRunner.WithTx(ctx, func(sp StoreProvider) error {
		claimed, a, err := sp.Analyses().ClaimQueued(ctx, msg.AnalysisID)
		if err != nil {
			return fmt.Errorf("claiming analysis: %w", err)
		}

		if !claimed {
			// Already processing or done - duplicate delivery is expected.
			slog.InfoContext(ctx, "analysis not claimable, skipping")
			return nil
		}

		novelText, baseSummary, loadErr := w.loadInputs(ctx, sp, a)
		if loadErr != nil {
			if errors.Is(loadErr, store.ErrNotFound) || errors.Is(loadErr, errBadInputs) {
				final, err = sp.Analyses().SetFailed(ctx, a.ID, loadErr.Error())
				if err != nil {
					return fmt.Errorf("marking analysis failed: %w", err)
				}
				engineErr = loadErr
				return nil
			}
			return fmt.Errorf("loading analysis inputs: %w", loadErr)
		}

		result, runErr := w.engine.Run(ctx, a, novelText, baseSummary)
		if runErr != nil {
			sc.RecordError(runErr)
			final, err = sp.Analyses().SetFailed(ctx, a.ID, runErr.Error())
			if err != nil {
				return fmt.Errorf("marking analysis failed: %w", err)
			}
			engineErr = runErr
			return nil
		}

		switch a.Kind {
		case model.AnalysisKindSummary:
			final, err = sp.Analyses().SetCompletedSummary(ctx, a.ID, result.Summary, result.Translated)
		case model.AnalysisKindPersona:
			final, err = sp.Analyses().SetCompletedPersona(ctx, a.ID, result.Narrative)
		default:
			return fmt.Errorf("unknown analysis kind %q", a.Kind)
		}
		if err != nil {
			return fmt.Errorf("completing analysis: %w", err)
		}

		return nil
	})

	if txErr != nil {
		// Transaction failed - don't ACK, let Redis redeliver
		return fmt.Errorf("transaction failed: %w", txErr)
	}

	// Transaction succeeded - ACK the message
	if err := w.consumer.Ack(ctx, msg); err != nil {
		// Log but don't fail - message will be reclaimed but that's safe
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}

	w.publishTerminal(ctx, final, engineErr)

	if engineErr != nil {
		slog.WarnContext(ctx, "analysis failed but transaction committed", "error", engineErr)
	} else if final != nil {
		slog.InfoContext(ctx, "analysis completed")
	}

	return nil
}

var errBadInputs = errors.New("analysis inputs invalid")

// loadInputs fetches the book content and, for persona analyses, the
// text of the completed summary the persona builds on.
func (w *Worker) loadInputs(ctx context.Context, sp StoreProvider, a *model.Analysis) (novelText, baseSummary string, err error) {
	book, err := sp.Books().GetByID(ctx, a.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", fmt.Errorf("book %d: %w", a.BookID, store.ErrNotFound)
		}
		return "", "", err
	}

	if a.Kind != model.AnalysisKindPersona {
		return book.Content, "", nil
	}

	if a.SummaryID == nil {
		return "", "", fmt.Errorf("%w: persona analysis has no summary reference", errBadInputs)
	}

	summary, err := sp.Analyses().GetByID(ctx, *a.SummaryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", fmt.Errorf("summary analysis %d: %w", *a.SummaryID, store.ErrNotFound)
		}
		return "", "", err
	}
	if summary.Summary == nil || *summary.Summary == "" {
		return "", "", fmt.Errorf("%w: referenced analysis %d has no summary text", errBadInputs, summary.ID)
	}

	return book.Content, *summary.Summary, nil
}

// publishTerminal emits the terminal progress event after the commit so
// SSE subscribers never see a terminal stage for a row that rolled back.
func (w *Worker) publishTerminal(ctx context.Context, final *model.Analysis, engineErr error) {
	if final == nil {
		return
	}

	if engineErr != nil {
		w.progress.Publish(ctx, final.ID, queue.StageFailed, engineErr.Error())
		return
	}
	w.progress.Publish(ctx, final.ID, queue.StageCompleted, "분석이 완료되었습니다.")
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"analysis_id", msg.AnalysisID,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"analysis_id", msg.AnalysisID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
