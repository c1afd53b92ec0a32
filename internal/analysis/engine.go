package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"fablelens.app/analyzer/common/llm"
	"fablelens.app/analyzer/common/logger"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/queue"
)

// Result carries the generated text for one analysis. Summary analyses
// fill Summary and Translated; persona analyses fill Narrative.
type Result struct {
	Summary    string
	Translated string
	Narrative  string
}

// Engine runs the generation stages for a claimed analysis. It only
// generates; persisting the result and the terminal progress event are
// the worker's job.
type Engine struct {
	llm      llm.Client
	progress queue.ProgressPublisher
}

func NewEngine(llmClient llm.Client, progress queue.ProgressPublisher) *Engine {
	return &Engine{
		llm:      llmClient,
		progress: progress,
	}
}

// Run executes the stages for the analysis kind. novelText is the
// book's full content; baseSummary is the completed English summary a
// persona analysis builds on (ignored for summary analyses).
func (e *Engine) Run(ctx context.Context, a *model.Analysis, novelText, baseSummary string) (*Result, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "analyzer.engine",
	})

	switch a.Kind {
	case model.AnalysisKindSummary:
		return e.runSummary(ctx, a, novelText)
	case model.AnalysisKindPersona:
		return e.runPersona(ctx, a, baseSummary)
	default:
		return nil, fmt.Errorf("unknown analysis kind %q", a.Kind)
	}
}

func (e *Engine) runSummary(ctx context.Context, a *model.Analysis, novelText string) (*Result, error) {
	e.progress.Publish(ctx, a.ID, queue.StageSummarizing, "소설의 핵심 줄거리를 요약하는 중입니다...")

	summary, err := e.llm.Generate(ctx, SummaryPrompt(novelText))
	if err != nil {
		return nil, fmt.Errorf("generating summary: %w", err)
	}

	slog.InfoContext(ctx, "summary generated",
		"summary_len", len(summary),
		"model", e.llm.Model())

	e.progress.Publish(ctx, a.ID, queue.StageTranslating, "요약된 줄거리를 한국어로 번역하는 중입니다...")

	translated, err := e.llm.Generate(ctx, TranslatePrompt(summary))
	if err != nil {
		return nil, fmt.Errorf("translating summary: %w", err)
	}

	return &Result{Summary: summary, Translated: translated}, nil
}

func (e *Engine) runPersona(ctx context.Context, a *model.Analysis, baseSummary string) (*Result, error) {
	if a.CharacterName == nil || *a.CharacterName == "" {
		return nil, fmt.Errorf("persona analysis has no character name")
	}
	if a.Profile == nil {
		return nil, fmt.Errorf("persona analysis has no personality profile")
	}
	if baseSummary == "" {
		return nil, fmt.Errorf("persona analysis has no base summary")
	}

	e.progress.Publish(ctx, a.ID, queue.StageRecounting,
		fmt.Sprintf("'%s'의 시선으로 소설을 재구성하는 중...", *a.CharacterName))

	narrative, err := e.llm.Generate(ctx, PersonaPrompt(*a.CharacterName, *a.Profile, baseSummary))
	if err != nil {
		return nil, fmt.Errorf("generating persona narrative: %w", err)
	}

	return &Result{Narrative: narrative}, nil
}
