package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"fablelens.app/analyzer/common/id"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/queue"
	"fablelens.app/analyzer/internal/service"
	"fablelens.app/analyzer/internal/store"
)

var _ = Describe("AnalysisService", func() {
	var (
		ctx      context.Context
		books    *mockBookStore
		analyses *mockAnalysisStore
		producer *mockProducer
		svc      service.AnalysisService

		book *model.Book
	)

	BeforeEach(func() {
		Expect(id.Init(9)).To(Succeed())

		ctx = context.Background()
		book = &model.Book{ID: 42, Title: "Dracula", KoreanTitle: "드라큘라"}

		books = &mockBookStore{
			GetByIDFn: func(_ context.Context, bookID int64) (*model.Book, error) {
				if bookID == book.ID {
					return book, nil
				}
				return nil, store.ErrNotFound
			},
		}
		analyses = &mockAnalysisStore{
			CreateFn: func(_ context.Context, _ *model.Analysis) error { return nil },
		}
		producer = &mockProducer{
			EnqueueFn: func(_ context.Context, _ queue.Task) error { return nil },
		}

		svc = service.NewAnalysisService(books, analyses, producer)
	})

	Describe("RequestSummary", func() {
		It("should create a queued summary analysis and enqueue a task", func() {
			var created *model.Analysis
			analyses.CreateFn = func(_ context.Context, a *model.Analysis) error {
				created = a
				return nil
			}
			var enqueued queue.Task
			producer.EnqueueFn = func(_ context.Context, task queue.Task) error {
				enqueued = task
				return nil
			}

			analysis, err := svc.RequestSummary(ctx, book.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(analysis).To(Equal(created))
			Expect(analysis.ID).NotTo(BeZero())
			Expect(analysis.BookID).To(Equal(book.ID))
			Expect(analysis.Kind).To(Equal(model.AnalysisKindSummary))
			Expect(enqueued.AnalysisID).To(Equal(analysis.ID))
			Expect(enqueued.BookID).To(Equal(book.ID))
			Expect(enqueued.Kind).To(Equal("summary"))
		})

		It("should return ErrNotFound for an unknown book", func() {
			_, err := svc.RequestSummary(ctx, 999)
			Expect(err).To(MatchError(store.ErrNotFound))
		})

		It("should fail when enqueueing fails", func() {
			producer.EnqueueFn = func(_ context.Context, _ queue.Task) error {
				return errors.New("redis down")
			}

			_, err := svc.RequestSummary(ctx, book.ID)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("enqueueing analysis"))
		})
	})

	Describe("RequestPersona", func() {
		var (
			profile model.PersonaProfile
			summary *model.Analysis
		)

		BeforeEach(func() {
			profile = model.PersonaProfile{
				Openness:          90,
				Conscientiousness: 40,
				Extraversion:      70,
				Agreeableness:     55,
				Neuroticism:       20,
			}
			summaryText := "The count travels to England."
			summary = &model.Analysis{
				ID:      1001,
				BookID:  book.ID,
				Kind:    model.AnalysisKindSummary,
				Status:  model.AnalysisStatusCompleted,
				Summary: &summaryText,
			}
			analyses.LatestCompletedSummaryFn = func(_ context.Context, bookID int64) (*model.Analysis, error) {
				if bookID == book.ID {
					return summary, nil
				}
				return nil, store.ErrNotFound
			}
		})

		It("should create a persona analysis referencing the latest summary", func() {
			var created *model.Analysis
			analyses.CreateFn = func(_ context.Context, a *model.Analysis) error {
				created = a
				return nil
			}

			analysis, err := svc.RequestPersona(ctx, book.ID, "Count Dracula", profile)

			Expect(err).NotTo(HaveOccurred())
			Expect(analysis).To(Equal(created))
			Expect(analysis.Kind).To(Equal(model.AnalysisKindPersona))
			Expect(analysis.CharacterName).To(HaveValue(Equal("Count Dracula")))
			Expect(analysis.Profile).To(HaveValue(Equal(profile)))
			Expect(analysis.SummaryID).To(HaveValue(Equal(summary.ID)))
		})

		It("should trim whitespace around the character name", func() {
			analysis, err := svc.RequestPersona(ctx, book.ID, "  Mina Harker  ", profile)

			Expect(err).NotTo(HaveOccurred())
			Expect(analysis.CharacterName).To(HaveValue(Equal("Mina Harker")))
		})

		It("should reject an empty character name", func() {
			_, err := svc.RequestPersona(ctx, book.ID, "   ", profile)
			Expect(err).To(MatchError(service.ErrCharacterNameRequired))
		})

		It("should reject an out-of-range trait score", func() {
			profile.Neuroticism = 101

			_, err := svc.RequestPersona(ctx, book.ID, "Count Dracula", profile)

			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("neuroticism"))
		})

		It("should return ErrSummaryRequired when no completed summary exists", func() {
			analyses.LatestCompletedSummaryFn = func(_ context.Context, _ int64) (*model.Analysis, error) {
				return nil, store.ErrNotFound
			}

			_, err := svc.RequestPersona(ctx, book.ID, "Count Dracula", profile)
			Expect(err).To(MatchError(service.ErrSummaryRequired))
		})

		It("should return ErrNotFound for an unknown book", func() {
			_, err := svc.RequestPersona(ctx, 999, "Count Dracula", profile)
			Expect(err).To(MatchError(store.ErrNotFound))
		})
	})

	Describe("Get", func() {
		It("should delegate to the analysis store", func() {
			want := &model.Analysis{ID: 7}
			analyses.GetByIDFn = func(_ context.Context, analysisID int64) (*model.Analysis, error) {
				Expect(analysisID).To(Equal(int64(7)))
				return want, nil
			}

			got, err := svc.Get(ctx, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		})
	})

	Describe("ListByBook", func() {
		It("should delegate to the analysis store", func() {
			analyses.ListByBookFn = func(_ context.Context, bookID int64) ([]model.Analysis, error) {
				Expect(bookID).To(Equal(book.ID))
				return []model.Analysis{{ID: 1}, {ID: 2}}, nil
			}

			got, err := svc.ListByBook(ctx, book.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(2))
		})
	})
})
