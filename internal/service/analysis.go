package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"fablelens.app/analyzer/common/id"
	"fablelens.app/analyzer/common/logger"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/queue"
	"fablelens.app/analyzer/internal/store"
)

var (
	// ErrSummaryRequired is returned when a persona analysis is requested
	// for a book that has no completed summary yet.
	ErrSummaryRequired = errors.New("a completed summary is required before a persona analysis")

	// ErrCharacterNameRequired is returned for a persona request without
	// a character name.
	ErrCharacterNameRequired = errors.New("character name is required")
)

// AnalysisService creates analysis jobs and serves their state.
type AnalysisService interface {
	RequestSummary(ctx context.Context, bookID int64) (*model.Analysis, error)
	RequestPersona(ctx context.Context, bookID int64, characterName string, profile model.PersonaProfile) (*model.Analysis, error)
	Get(ctx context.Context, id int64) (*model.Analysis, error)
	ListByBook(ctx context.Context, bookID int64) ([]model.Analysis, error)
}

type analysisService struct {
	books    store.BookStore
	analyses store.AnalysisStore
	producer queue.Producer
}

func NewAnalysisService(books store.BookStore, analyses store.AnalysisStore, producer queue.Producer) AnalysisService {
	return &analysisService{
		books:    books,
		analyses: analyses,
		producer: producer,
	}
}

func (s *analysisService) RequestSummary(ctx context.Context, bookID int64) (*model.Analysis, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	analysis := &model.Analysis{
		ID:     id.New(),
		BookID: bookID,
		Kind:   model.AnalysisKindSummary,
	}

	return s.createAndEnqueue(ctx, analysis)
}

func (s *analysisService) RequestPersona(ctx context.Context, bookID int64, characterName string, profile model.PersonaProfile) (*model.Analysis, error) {
	characterName = strings.TrimSpace(characterName)
	if characterName == "" {
		return nil, ErrCharacterNameRequired
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	summary, err := s.analyses.LatestCompletedSummary(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSummaryRequired
		}
		return nil, fmt.Errorf("looking up completed summary: %w", err)
	}

	analysis := &model.Analysis{
		ID:            id.New(),
		BookID:        bookID,
		Kind:          model.AnalysisKindPersona,
		CharacterName: &characterName,
		Profile:       &profile,
		SummaryID:     &summary.ID,
	}

	return s.createAndEnqueue(ctx, analysis)
}

func (s *analysisService) Get(ctx context.Context, id int64) (*model.Analysis, error) {
	return s.analyses.GetByID(ctx, id)
}

func (s *analysisService) ListByBook(ctx context.Context, bookID int64) ([]model.Analysis, error) {
	return s.analyses.ListByBook(ctx, bookID)
}

func (s *analysisService) createAndEnqueue(ctx context.Context, analysis *model.Analysis) (*model.Analysis, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		BookID:     logger.Ptr(analysis.BookID),
		AnalysisID: logger.Ptr(analysis.ID),
		Kind:       logger.Ptr(string(analysis.Kind)),
	})

	if err := s.analyses.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("creating analysis: %w", err)
	}

	err := s.producer.Enqueue(ctx, queue.Task{
		AnalysisID: analysis.ID,
		BookID:     analysis.BookID,
		Kind:       string(analysis.Kind),
		TraceID:    traceIDFromContext(ctx),
	})
	if err != nil {
		// The row stays queued; the request fails so the user can retry.
		slog.ErrorContext(ctx, "failed to enqueue analysis", "error", err)
		return nil, fmt.Errorf("enqueueing analysis: %w", err)
	}

	slog.InfoContext(ctx, "analysis requested")
	return analysis, nil
}

func traceIDFromContext(ctx context.Context) *string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}
	traceID := sc.TraceID().String()
	return &traceID
}
