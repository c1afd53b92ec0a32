package store

import (
	"context"
	"errors"

	"fablelens.app/analyzer/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// BookStore defines the contract for book data access
type BookStore interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	GetByTitle(ctx context.Context, title string) (*model.Book, error)
	ListCurated(ctx context.Context) ([]model.Book, error)
	DeleteBySource(ctx context.Context, source model.BookSource) error
}

// AnalysisStore defines the contract for analysis data access
type AnalysisStore interface {
	Create(ctx context.Context, analysis *model.Analysis) error
	GetByID(ctx context.Context, id int64) (*model.Analysis, error)
	// ClaimQueued transitions a queued analysis to processing and bumps
	// its attempt counter. Returns claimed=false when the analysis is in
	// any other state (duplicate delivery, already done).
	ClaimQueued(ctx context.Context, id int64) (bool, *model.Analysis, error)
	SetCompletedSummary(ctx context.Context, id int64, summary, translated string) (*model.Analysis, error)
	SetCompletedPersona(ctx context.Context, id int64, narrative string) (*model.Analysis, error)
	SetFailed(ctx context.Context, id int64, reason string) (*model.Analysis, error)
	LatestCompletedSummary(ctx context.Context, bookID int64) (*model.Analysis, error)
	ListByBook(ctx context.Context, bookID int64) ([]model.Analysis, error)
}
