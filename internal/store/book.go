package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"fablelens.app/analyzer/core/db/sqlc"
	"fablelens.app/analyzer/internal/model"
)

type bookStore struct {
	queries *sqlc.Queries
}

func newBookStore(queries *sqlc.Queries) BookStore {
	return &bookStore{queries: queries}
}

func (s *bookStore) Create(ctx context.Context, book *model.Book) error {
	row, err := s.queries.CreateBook(ctx, sqlc.CreateBookParams{
		ID:            book.ID,
		Title:         book.Title,
		KoreanTitle:   book.KoreanTitle,
		Source:        string(book.Source),
		Priority:      book.Priority,
		Position:      book.Position,
		Content:       book.Content,
		ContentLength: book.ContentLength,
	})
	if err != nil {
		return err
	}
	*book = *toBookModel(row)
	return nil
}

func (s *bookStore) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	row, err := s.queries.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toBookModel(row), nil
}

func (s *bookStore) GetByTitle(ctx context.Context, title string) (*model.Book, error) {
	row, err := s.queries.GetBookByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toBookModel(row), nil
}

// ListCurated returns gutenberg-sourced books in curation order. Content
// is intentionally not loaded: the list backs the selection dropdown.
func (s *bookStore) ListCurated(ctx context.Context) ([]model.Book, error) {
	rows, err := s.queries.ListCuratedBooks(ctx)
	if err != nil {
		return nil, err
	}
	books := make([]model.Book, len(rows))
	for i, row := range rows {
		books[i] = model.Book{
			ID:            row.ID,
			Title:         row.Title,
			KoreanTitle:   row.KoreanTitle,
			Source:        model.BookSource(row.Source),
			Priority:      row.Priority,
			Position:      row.Position,
			ContentLength: row.ContentLength,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		}
	}
	return books, nil
}

func (s *bookStore) DeleteBySource(ctx context.Context, source model.BookSource) error {
	return s.queries.DeleteBooksBySource(ctx, string(source))
}

func toBookModel(row sqlc.Book) *model.Book {
	return &model.Book{
		ID:            row.ID,
		Title:         row.Title,
		KoreanTitle:   row.KoreanTitle,
		Source:        model.BookSource(row.Source),
		Priority:      row.Priority,
		Position:      row.Position,
		Content:       row.Content,
		ContentLength: row.ContentLength,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
