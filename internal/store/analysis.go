package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"fablelens.app/analyzer/core/db/sqlc"
	"fablelens.app/analyzer/internal/model"
)

type analysisStore struct {
	queries *sqlc.Queries
}

func newAnalysisStore(queries *sqlc.Queries) AnalysisStore {
	return &analysisStore{queries: queries}
}

func (s *analysisStore) Create(ctx context.Context, analysis *model.Analysis) error {
	profile, err := marshalProfile(analysis.Profile)
	if err != nil {
		return err
	}

	row, err := s.queries.CreateAnalysis(ctx, sqlc.CreateAnalysisParams{
		ID:            analysis.ID,
		BookID:        analysis.BookID,
		Kind:          string(analysis.Kind),
		CharacterName: analysis.CharacterName,
		Profile:       profile,
		SummaryID:     analysis.SummaryID,
	})
	if err != nil {
		return err
	}

	mapped, err := toAnalysisModel(row)
	if err != nil {
		return err
	}
	*analysis = *mapped
	return nil
}

func (s *analysisStore) GetByID(ctx context.Context, id int64) (*model.Analysis, error) {
	row, err := s.queries.GetAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAnalysisModel(row)
}

func (s *analysisStore) ClaimQueued(ctx context.Context, id int64) (bool, *model.Analysis, error) {
	row, err := s.queries.ClaimQueuedAnalysis(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Not queued anymore: claimed by someone else or terminal
			return false, nil, nil
		}
		return false, nil, err
	}
	analysis, err := toAnalysisModel(row)
	if err != nil {
		return false, nil, err
	}
	return true, analysis, nil
}

func (s *analysisStore) SetCompletedSummary(ctx context.Context, id int64, summary, translated string) (*model.Analysis, error) {
	row, err := s.queries.CompleteSummaryAnalysis(ctx, sqlc.CompleteSummaryAnalysisParams{
		ID:         id,
		Summary:    &summary,
		Translated: &translated,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAnalysisModel(row)
}

func (s *analysisStore) SetCompletedPersona(ctx context.Context, id int64, narrative string) (*model.Analysis, error) {
	row, err := s.queries.CompletePersonaAnalysis(ctx, sqlc.CompletePersonaAnalysisParams{
		ID:        id,
		Narrative: &narrative,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAnalysisModel(row)
}

func (s *analysisStore) SetFailed(ctx context.Context, id int64, reason string) (*model.Analysis, error) {
	row, err := s.queries.FailAnalysis(ctx, sqlc.FailAnalysisParams{
		ID:         id,
		FailReason: &reason,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAnalysisModel(row)
}

func (s *analysisStore) LatestCompletedSummary(ctx context.Context, bookID int64) (*model.Analysis, error) {
	row, err := s.queries.LatestCompletedSummary(ctx, bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toAnalysisModel(row)
}

func (s *analysisStore) ListByBook(ctx context.Context, bookID int64) ([]model.Analysis, error) {
	rows, err := s.queries.ListAnalysesByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	analyses := make([]model.Analysis, len(rows))
	for i, row := range rows {
		mapped, err := toAnalysisModel(row)
		if err != nil {
			return nil, err
		}
		analyses[i] = *mapped
	}
	return analyses, nil
}

func toAnalysisModel(row sqlc.Analysis) (*model.Analysis, error) {
	var profile *model.PersonaProfile
	if len(row.Profile) > 0 {
		profile = &model.PersonaProfile{}
		if err := json.Unmarshal(row.Profile, profile); err != nil {
			return nil, fmt.Errorf("unmarshaling persona profile: %w", err)
		}
	}

	return &model.Analysis{
		ID:            row.ID,
		BookID:        row.BookID,
		Kind:          model.AnalysisKind(row.Kind),
		Status:        model.AnalysisStatus(row.Status),
		CharacterName: row.CharacterName,
		Profile:       profile,
		SummaryID:     row.SummaryID,
		Summary:       row.Summary,
		Translated:    row.Translated,
		Narrative:     row.Narrative,
		FailReason:    row.FailReason,
		Attempt:       row.Attempt,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
		StartedAt:     row.StartedAt,
		CompletedAt:   row.CompletedAt,
	}, nil
}

func marshalProfile(profile *model.PersonaProfile) ([]byte, error) {
	if profile == nil {
		return nil, nil
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("marshaling persona profile: %w", err)
	}
	return data, nil
}
