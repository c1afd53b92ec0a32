package worker

import (
	"context"

	"fablelens.app/analyzer/internal/analysis"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/queue"
	"fablelens.app/analyzer/internal/store"
)

type mockConsumer struct {
	ReadFn    func(ctx context.Context) ([]queue.Message, error)
	AckFn     func(ctx context.Context, msg queue.Message) error
	RequeueFn func(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQFn func(ctx context.Context, msg queue.Message, errMsg string) error
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	return m.ReadFn(ctx)
}

func (m *mockConsumer) Ack(ctx context.Context, msg queue.Message) error {
	return m.AckFn(ctx, msg)
}

func (m *mockConsumer) Requeue(ctx context.Context, msg queue.Message, errMsg string) error {
	return m.RequeueFn(ctx, msg, errMsg)
}

func (m *mockConsumer) SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error {
	return m.SendDLQFn(ctx, msg, errMsg)
}

type mockEngine struct {
	RunFn func(ctx context.Context, a *model.Analysis, novelText, baseSummary string) (*analysis.Result, error)
}

func (m *mockEngine) Run(ctx context.Context, a *model.Analysis, novelText, baseSummary string) (*analysis.Result, error) {
	return m.RunFn(ctx, a, novelText, baseSummary)
}

type progressEvent struct {
	analysisID int64
	stage      string
	detail     string
}

type mockProgress struct {
	events []progressEvent
}

func (m *mockProgress) Publish(_ context.Context, analysisID int64, stage, detail string) {
	m.events = append(m.events, progressEvent{analysisID: analysisID, stage: stage, detail: detail})
}

type mockBookStore struct {
	GetByIDFn func(ctx context.Context, id int64) (*model.Book, error)
}

func (m *mockBookStore) Create(_ context.Context, _ *model.Book) error { return nil }

func (m *mockBookStore) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockBookStore) GetByTitle(_ context.Context, _ string) (*model.Book, error) {
	return nil, store.ErrNotFound
}

func (m *mockBookStore) ListCurated(_ context.Context) ([]model.Book, error) { return nil, nil }

func (m *mockBookStore) DeleteBySource(_ context.Context, _ model.BookSource) error { return nil }

type mockAnalysisStore struct {
	GetByIDFn             func(ctx context.Context, id int64) (*model.Analysis, error)
	ClaimQueuedFn         func(ctx context.Context, id int64) (bool, *model.Analysis, error)
	SetCompletedSummaryFn func(ctx context.Context, id int64, summary, translated string) (*model.Analysis, error)
	SetCompletedPersonaFn func(ctx context.Context, id int64, narrative string) (*model.Analysis, error)
	SetFailedFn           func(ctx context.Context, id int64, reason string) (*model.Analysis, error)
}

func (m *mockAnalysisStore) Create(_ context.Context, _ *model.Analysis) error { return nil }

func (m *mockAnalysisStore) GetByID(ctx context.Context, id int64) (*model.Analysis, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockAnalysisStore) ClaimQueued(ctx context.Context, id int64) (bool, *model.Analysis, error) {
	return m.ClaimQueuedFn(ctx, id)
}

func (m *mockAnalysisStore) SetCompletedSummary(ctx context.Context, id int64, summary, translated string) (*model.Analysis, error) {
	return m.SetCompletedSummaryFn(ctx, id, summary, translated)
}

func (m *mockAnalysisStore) SetCompletedPersona(ctx context.Context, id int64, narrative string) (*model.Analysis, error) {
	return m.SetCompletedPersonaFn(ctx, id, narrative)
}

func (m *mockAnalysisStore) SetFailed(ctx context.Context, id int64, reason string) (*model.Analysis, error) {
	return m.SetFailedFn(ctx, id, reason)
}

func (m *mockAnalysisStore) LatestCompletedSummary(_ context.Context, _ int64) (*model.Analysis, error) {
	return nil, store.ErrNotFound
}

func (m *mockAnalysisStore) ListByBook(_ context.Context, _ int64) ([]model.Analysis, error) {
	return nil, nil
}

type mockStoreProvider struct {
	books    *mockBookStore
	analyses *mockAnalysisStore
}

func (m *mockStoreProvider) Books() store.BookStore        { return m.books }
func (m *mockStoreProvider) Analyses() store.AnalysisStore { return m.analyses }

type mockTxRunner struct {
	provider *mockStoreProvider
	err      error
}

func (m *mockTxRunner) WithTx(_ context.Context, fn func(stores StoreProvider) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(m.provider)
}
