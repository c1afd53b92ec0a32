package model

import (
	"fmt"
	"time"
)

type AnalysisKind string

const (
	AnalysisKindSummary AnalysisKind = "summary"
	AnalysisKindPersona AnalysisKind = "persona"
)

type AnalysisStatus string

const (
	AnalysisStatusQueued     AnalysisStatus = "queued"
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
)

// PersonaProfile holds the five OCEAN trait scores, each 0-100.
type PersonaProfile struct {
	Openness          int `json:"openness"`
	Conscientiousness int `json:"conscientiousness"`
	Extraversion      int `json:"extraversion"`
	Agreeableness     int `json:"agreeableness"`
	Neuroticism       int `json:"neuroticism"`
}

func (p PersonaProfile) Validate() error {
	traits := map[string]int{
		"openness":          p.Openness,
		"conscientiousness": p.Conscientiousness,
		"extraversion":      p.Extraversion,
		"agreeableness":     p.Agreeableness,
		"neuroticism":       p.Neuroticism,
	}
	for name, score := range traits {
		if score < 0 || score > 100 {
			return fmt.Errorf("trait %s out of range: %d (must be 0-100)", name, score)
		}
	}
	return nil
}

// Analysis is one generation job over a book. A summary analysis holds
// the English summary and its Korean translation; a persona analysis
// holds the first-person retelling and references the completed summary
// it was built from.
type Analysis struct {
	ID            int64
	BookID        int64
	Kind          AnalysisKind
	Status        AnalysisStatus
	CharacterName *string
	Profile       *PersonaProfile
	SummaryID     *int64
	Summary       *string
	Translated    *string
	Narrative     *string
	FailReason    *string
	Attempt       int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
	StartedAt     *time.Time
	CompletedAt   *time.Time
}

func (a *Analysis) Terminal() bool {
	return a.Status == AnalysisStatusCompleted || a.Status == AnalysisStatusFailed
}
