package dto

import (
	"time"

	"fablelens.app/analyzer/internal/model"
)

type BookResponse struct {
	ID            int64     `json:"id,string"`
	Title         string    `json:"title"`
	KoreanTitle   string    `json:"korean_title"`
	Source        string    `json:"source"`
	ContentLength int32     `json:"content_length"`
	Content       *string   `json:"content,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToBookResponse(b *model.Book, withContent bool) *BookResponse {
	resp := &BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		KoreanTitle:   b.KoreanTitle,
		Source:        string(b.Source),
		ContentLength: b.ContentLength,
		CreatedAt:     b.CreatedAt,
	}
	if withContent {
		resp.Content = &b.Content
	}
	return resp
}

type BookListResponse struct {
	Books []BookResponse `json:"books"`
}

func ToBookListResponse(books []model.Book) BookListResponse {
	resp := BookListResponse{Books: make([]BookResponse, 0, len(books))}
	for i := range books {
		resp.Books = append(resp.Books, *ToBookResponse(&books[i], false))
	}
	return resp
}
