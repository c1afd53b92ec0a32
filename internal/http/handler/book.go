package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"fablelens.app/analyzer/internal/http/dto"
	"fablelens.app/analyzer/internal/service"
	"fablelens.app/analyzer/internal/store"
)

type BookHandler struct {
	library service.LibraryService
}

func NewBookHandler(library service.LibraryService) *BookHandler {
	return &BookHandler{library: library}
}

func (h *BookHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	books, err := h.library.ListCurated(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list books", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list books"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBookListResponse(books))
}

func (h *BookHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	book, err := h.library.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get book", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get book"})
		return
	}

	withContent := c.Query("content") == "1"
	c.JSON(http.StatusOK, dto.ToBookResponse(book, withContent))
}

func (h *BookHandler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	book, err := h.library.Upload(ctx, fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds size limit"})
		case errors.Is(err, service.ErrUploadEmpty), errors.Is(err, service.ErrUploadNotUTF8):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				slog.InfoContext(ctx, "duplicate book upload attempted", "filename", fileHeader.Filename)
				c.JSON(http.StatusConflict, gin.H{"error": "a book with this title already exists"})
				return
			}
			slog.ErrorContext(ctx, "failed to store uploaded book", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store uploaded book"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToBookResponse(book, false))
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}
