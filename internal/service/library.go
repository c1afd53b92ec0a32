package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fablelens.app/analyzer/common/id"
	"fablelens.app/analyzer/common/logger"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/store"
)

var (
	// ErrUploadEmpty is returned for an empty or whitespace-only file.
	ErrUploadEmpty = errors.New("uploaded file is empty")

	// ErrUploadNotUTF8 is returned when the file is not valid UTF-8 text.
	ErrUploadNotUTF8 = errors.New("uploaded file is not valid UTF-8 text")

	// ErrUploadTooLarge is returned when the file exceeds the size limit.
	ErrUploadTooLarge = errors.New("uploaded file exceeds the size limit")
)

// LibraryService serves the curated novel library and user uploads.
type LibraryService interface {
	ListCurated(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	Upload(ctx context.Context, filename string, data []byte) (*model.Book, error)
}

type libraryService struct {
	books          store.BookStore
	uploadMaxBytes int64
}

func NewLibraryService(books store.BookStore, uploadMaxBytes int64) LibraryService {
	return &libraryService{
		books:          books,
		uploadMaxBytes: uploadMaxBytes,
	}
}

func (s *libraryService) ListCurated(ctx context.Context) ([]model.Book, error) {
	books, err := s.books.ListCurated(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing curated books: %w", err)
	}
	return books, nil
}

func (s *libraryService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return s.books.GetByID(ctx, id)
}

// Upload stores a user-provided .txt novel. The title is the filename
// without its extension; the Korean display title mirrors it since
// uploads carry no translation.
func (s *libraryService) Upload(ctx context.Context, filename string, data []byte) (*model.Book, error) {
	if s.uploadMaxBytes > 0 && int64(len(data)) > s.uploadMaxBytes {
		return nil, ErrUploadTooLarge
	}
	if !utf8.Valid(data) {
		return nil, ErrUploadNotUTF8
	}

	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, ErrUploadEmpty
	}

	title := strings.TrimSpace(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if title == "" {
		title = "업로드된 소설"
	}

	book := &model.Book{
		ID:            id.New(),
		Title:         title,
		KoreanTitle:   title,
		Source:        model.BookSourceUpload,
		Content:       content,
		ContentLength: int32(len(content)),
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{BookID: logger.Ptr(book.ID)})
	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("storing uploaded book: %w", err)
	}

	slog.InfoContext(ctx, "book uploaded", "title", title, "content_length", book.ContentLength)
	return book, nil
}
