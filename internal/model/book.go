package model

import "time"

type BookSource string

const (
	BookSourceGutenberg BookSource = "gutenberg"
	BookSourceUpload    BookSource = "upload"
)

// Book is a novel available for analysis: either curated from the
// Gutenberg dataset by the preprocessor or uploaded by the user.
type Book struct {
	ID            int64
	Title         string
	KoreanTitle   string
	Source        BookSource
	Priority      bool
	Position      int32
	Content       string
	ContentLength int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
