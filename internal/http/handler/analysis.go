package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fablelens.app/analyzer/internal/http/dto"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/service"
	"fablelens.app/analyzer/internal/store"
)

type AnalysisHandler struct {
	analyses service.AnalysisService
}

func NewAnalysisHandler(analyses service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analyses: analyses}
}

func (h *AnalysisHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		analysis *model.Analysis
		err      error
	)

	switch req.Kind {
	case "summary":
		analysis, err = h.analyses.RequestSummary(ctx, req.BookID)
	case "persona":
		if req.Profile == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "profile is required for persona analyses"})
			return
		}
		analysis, err = h.analyses.RequestPersona(ctx, req.BookID, req.CharacterName, req.Profile.ToModel())
	}

	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		case errors.Is(err, service.ErrSummaryRequired):
			c.JSON(http.StatusConflict, gin.H{"error": "summary_required"})
		case errors.Is(err, service.ErrCharacterNameRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			slog.ErrorContext(ctx, "failed to create analysis", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create analysis"})
		}
		return
	}

	c.JSON(http.StatusAccepted, dto.ToAnalysisResponse(analysis))
}

func (h *AnalysisHandler) GetByID(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis id"})
		return
	}

	analysis, err := h.analyses.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}
		slog.ErrorContext(ctx, "failed to get analysis", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get analysis"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalysisResponse(analysis))
}

func (h *AnalysisHandler) ListByBook(c *gin.Context) {
	ctx := c.Request.Context()

	bookID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	analyses, err := h.analyses.ListByBook(ctx, bookID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list analyses", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analyses"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAnalysisListResponse(analyses))
}
