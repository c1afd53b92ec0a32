package dto

import (
	"time"

	"fablelens.app/analyzer/internal/model"
)

type PersonaProfileDTO struct {
	Openness          *int `json:"openness" binding:"required,min=0,max=100"`
	Conscientiousness *int `json:"conscientiousness" binding:"required,min=0,max=100"`
	Extraversion      *int `json:"extraversion" binding:"required,min=0,max=100"`
	Agreeableness     *int `json:"agreeableness" binding:"required,min=0,max=100"`
	Neuroticism       *int `json:"neuroticism" binding:"required,min=0,max=100"`
}

func (p *PersonaProfileDTO) ToModel() model.PersonaProfile {
	return model.PersonaProfile{
		Openness:          *p.Openness,
		Conscientiousness: *p.Conscientiousness,
		Extraversion:      *p.Extraversion,
		Agreeableness:     *p.Agreeableness,
		Neuroticism:       *p.Neuroticism,
	}
}

type CreateAnalysisRequest struct {
	BookID        int64              `json:"book_id,string" binding:"required"`
	Kind          string             `json:"kind" binding:"required,oneof=summary persona"`
	CharacterName string             `json:"character_name"`
	Profile       *PersonaProfileDTO `json:"profile"`
}

type AnalysisResponse struct {
	ID            int64                 `json:"id,string"`
	BookID        int64                 `json:"book_id,string"`
	Kind          string                `json:"kind"`
	Status        string                `json:"status"`
	CharacterName *string               `json:"character_name,omitempty"`
	Profile       *model.PersonaProfile `json:"profile,omitempty"`
	Summary       *string               `json:"summary,omitempty"`
	Translated    *string               `json:"translated,omitempty"`
	Narrative     *string               `json:"narrative,omitempty"`
	FailReason    *string               `json:"fail_reason,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
}

func ToAnalysisResponse(a *model.Analysis) *AnalysisResponse {
	return &AnalysisResponse{
		ID:            a.ID,
		BookID:        a.BookID,
		Kind:          string(a.Kind),
		Status:        string(a.Status),
		CharacterName: a.CharacterName,
		Profile:       a.Profile,
		Summary:       a.Summary,
		Translated:    a.Translated,
		Narrative:     a.Narrative,
		FailReason:    a.FailReason,
		CreatedAt:     a.CreatedAt,
		CompletedAt:   a.CompletedAt,
	}
}

type AnalysisListResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
}

func ToAnalysisListResponse(analyses []model.Analysis) AnalysisListResponse {
	resp := AnalysisListResponse{Analyses: make([]AnalysisResponse, 0, len(analyses))}
	for i := range analyses {
		resp.Analyses = append(resp.Analyses, *ToAnalysisResponse(&analyses[i]))
	}
	return resp
}
