package worker

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"fablelens.app/analyzer/internal/analysis"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/queue"
	"fablelens.app/analyzer/internal/store"
)

var _ = Describe("Worker", func() {
	var (
		ctx      context.Context
		consumer *mockConsumer
		books    *mockBookStore
		analyses *mockAnalysisStore
		txRunner *mockTxRunner
		engine   *mockEngine
		progress *mockProgress
		w        *Worker

		book    *model.Book
		claimed *model.Analysis
		msg     queue.Message

		acked bool
	)

	BeforeEach(func() {
		ctx = context.Background()
		acked = false

		book = &model.Book{ID: 42, Title: "Dracula", Content: "Jonathan Harker's journal."}
		claimed = &model.Analysis{
			ID:     100,
			BookID: book.ID,
			Kind:   model.AnalysisKindSummary,
			Status: model.AnalysisStatusProcessing,
		}
		msg = queue.Message{ID: "1-0", AnalysisID: claimed.ID, BookID: book.ID, Kind: "summary", Attempt: 1}

		consumer = &mockConsumer{
			AckFn: func(_ context.Context, _ queue.Message) error {
				acked = true
				return nil
			},
			RequeueFn: func(_ context.Context, _ queue.Message, _ string) error { return nil },
			SendDLQFn: func(_ context.Context, _ queue.Message, _ string) error { return nil },
		}
		books = &mockBookStore{
			GetByIDFn: func(_ context.Context, id int64) (*model.Book, error) {
				Expect(id).To(Equal(book.ID))
				return book, nil
			},
		}
		analyses = &mockAnalysisStore{
			ClaimQueuedFn: func(_ context.Context, id int64) (bool, *model.Analysis, error) {
				Expect(id).To(Equal(claimed.ID))
				return true, claimed, nil
			},
			SetCompletedSummaryFn: func(_ context.Context, id int64, summary, translated string) (*model.Analysis, error) {
				done := *claimed
				done.Status = model.AnalysisStatusCompleted
				done.Summary = &summary
				done.Translated = &translated
				return &done, nil
			},
			SetCompletedPersonaFn: func(_ context.Context, id int64, narrative string) (*model.Analysis, error) {
				done := *claimed
				done.Status = model.AnalysisStatusCompleted
				done.Narrative = &narrative
				return &done, nil
			},
			SetFailedFn: func(_ context.Context, id int64, reason string) (*model.Analysis, error) {
				failed := *claimed
				failed.Status = model.AnalysisStatusFailed
				failed.FailReason = &reason
				return &failed, nil
			},
		}
		txRunner = &mockTxRunner{provider: &mockStoreProvider{books: books, analyses: analyses}}
		engine = &mockEngine{
			RunFn: func(_ context.Context, _ *model.Analysis, _, _ string) (*analysis.Result, error) {
				return &analysis.Result{Summary: "summary", Translated: "요약"}, nil
			},
		}
		progress = &mockProgress{}

		w = New(consumer, txRunner, engine, progress, Config{MaxAttempts: 3})
	})

	Describe("ProcessMessage", func() {
		It("should claim, run the engine with the novel text, complete and ack", func() {
			var gotNovel string
			engine.RunFn = func(_ context.Context, a *model.Analysis, novelText, _ string) (*analysis.Result, error) {
				Expect(a.ID).To(Equal(claimed.ID))
				gotNovel = novelText
				return &analysis.Result{Summary: "s", Translated: "t"}, nil
			}
			var savedSummary, savedTranslated string
			analyses.SetCompletedSummaryFn = func(_ context.Context, id int64, summary, translated string) (*model.Analysis, error) {
				Expect(id).To(Equal(claimed.ID))
				savedSummary, savedTranslated = summary, translated
				done := *claimed
				done.Status = model.AnalysisStatusCompleted
				return &done, nil
			}

			err := w.ProcessMessage(ctx, msg)

			Expect(err).NotTo(HaveOccurred())
			Expect(gotNovel).To(Equal(book.Content))
			Expect(savedSummary).To(Equal("s"))
			Expect(savedTranslated).To(Equal("t"))
			Expect(acked).To(BeTrue())
		})

		It("should publish a terminal completed event after the commit", func() {
			err := w.ProcessMessage(ctx, msg)

			Expect(err).NotTo(HaveOccurred())
			Expect(progress.events).To(HaveLen(1))
			Expect(progress.events[0].analysisID).To(Equal(claimed.ID))
			Expect(progress.events[0].stage).To(Equal(queue.StageCompleted))
			Expect(progress.events[0].detail).To(Equal("분석이 완료되었습니다."))
		})

		It("should ack and skip when the analysis is not claimable", func() {
			engineCalled := false
			engine.RunFn = func(_ context.Context, _ *model.Analysis, _, _ string) (*analysis.Result, error) {
				engineCalled = true
				return nil, nil
			}
			analyses.ClaimQueuedFn = func(_ context.Context, _ int64) (bool, *model.Analysis, error) {
				return false, nil, nil
			}

			err := w.ProcessMessage(ctx, msg)

			Expect(err).NotTo(HaveOccurred())
			Expect(engineCalled).To(BeFalse())
			Expect(acked).To(BeTrue())
			Expect(progress.events).To(BeEmpty())
		})

		It("should record an engine failure, commit, ack and publish failed", func() {
			engine.RunFn = func(_ context.Context, _ *model.Analysis, _, _ string) (*analysis.Result, error) {
				return nil, errors.New("model unavailable")
			}
			var failReason string
			analyses.SetFailedFn = func(_ context.Context, id int64, reason string) (*model.Analysis, error) {
				failReason = reason
				failed := *claimed
				failed.Status = model.AnalysisStatusFailed
				return &failed, nil
			}

			err := w.ProcessMessage(ctx, msg)

			Expect(err).NotTo(HaveOccurred())
			Expect(failReason).To(ContainSubstring("model unavailable"))
			Expect(acked).To(BeTrue())
			Expect(progress.events).To(HaveLen(1))
			Expect(progress.events[0].stage).To(Equal(queue.StageFailed))
		})

		It("should not ack when the transaction fails", func() {
			txRunner.err = errors.New("connection refused")

			err := w.ProcessMessage(ctx, msg)

			Expect(err).To(HaveOccurred())
			Expect(acked).To(BeFalse())
			Expect(progress.events).To(BeEmpty())
		})

		It("should mark the analysis failed when the book is gone", func() {
			books.GetByIDFn = func(_ context.Context, _ int64) (*model.Book, error) {
				return nil, store.ErrNotFound
			}
			var failReason string
			analyses.SetFailedFn = func(_ context.Context, _ int64, reason string) (*model.Analysis, error) {
				failReason = reason
				failed := *claimed
				failed.Status = model.AnalysisStatusFailed
				return &failed, nil
			}

			err := w.ProcessMessage(ctx, msg)

			Expect(err).NotTo(HaveOccurred())
			Expect(failReason).To(ContainSubstring("not found"))
			Expect(acked).To(BeTrue())
		})

		Context("persona analyses", func() {
			var summaryText string

			BeforeEach(func() {
				summaryText = "The count travels to England."
				name := "Count Dracula"
				summaryID := int64(90)
				claimed.Kind = model.AnalysisKindPersona
				claimed.CharacterName = &name
				claimed.Profile = &model.PersonaProfile{Openness: 90}
				claimed.SummaryID = &summaryID
				msg.Kind = "persona"

				analyses.GetByIDFn = func(_ context.Context, id int64) (*model.Analysis, error) {
					Expect(id).To(Equal(summaryID))
					return &model.Analysis{
						ID:      summaryID,
						Kind:    model.AnalysisKindSummary,
						Status:  model.AnalysisStatusCompleted,
						Summary: &summaryText,
					}, nil
				}
			})

			It("should pass the base summary to the engine and complete", func() {
				var gotBase string
				engine.RunFn = func(_ context.Context, _ *model.Analysis, _, baseSummary string) (*analysis.Result, error) {
					gotBase = baseSummary
					return &analysis.Result{Narrative: "나는 드라큘라다."}, nil
				}
				var savedNarrative string
				analyses.SetCompletedPersonaFn = func(_ context.Context, _ int64, narrative string) (*model.Analysis, error) {
					savedNarrative = narrative
					done := *claimed
					done.Status = model.AnalysisStatusCompleted
					return &done, nil
				}

				err := w.ProcessMessage(ctx, msg)

				Expect(err).NotTo(HaveOccurred())
				Expect(gotBase).To(Equal(summaryText))
				Expect(savedNarrative).To(Equal("나는 드라큘라다."))
			})

			It("should fail the analysis when the referenced summary has no text", func() {
				analyses.GetByIDFn = func(_ context.Context, id int64) (*model.Analysis, error) {
					return &model.Analysis{ID: id, Kind: model.AnalysisKindSummary}, nil
				}
				var failReason string
				analyses.SetFailedFn = func(_ context.Context, _ int64, reason string) (*model.Analysis, error) {
					failReason = reason
					failed := *claimed
					failed.Status = model.AnalysisStatusFailed
					return &failed, nil
				}

				err := w.ProcessMessage(ctx, msg)

				Expect(err).NotTo(HaveOccurred())
				Expect(failReason).To(ContainSubstring("no summary text"))
				Expect(acked).To(BeTrue())
			})
		})
	})

	Describe("processOneBatch", func() {
		It("should requeue a failed message below the attempt limit", func() {
			consumer.ReadFn = func(_ context.Context) ([]queue.Message, error) {
				return []queue.Message{msg}, nil
			}
			txRunner.err = errors.New("connection refused")
			var requeued bool
			consumer.RequeueFn = func(_ context.Context, m queue.Message, errMsg string) error {
				requeued = true
				Expect(m.ID).To(Equal(msg.ID))
				Expect(errMsg).To(ContainSubstring("connection refused"))
				return nil
			}

			Expect(w.processOneBatch(ctx)).To(Succeed())
			Expect(requeued).To(BeTrue())
		})

		It("should send a message at the attempt limit to the DLQ", func() {
			msg.Attempt = 3
			consumer.ReadFn = func(_ context.Context) ([]queue.Message, error) {
				return []queue.Message{msg}, nil
			}
			txRunner.err = errors.New("connection refused")
			var dlq bool
			consumer.SendDLQFn = func(_ context.Context, m queue.Message, _ string) error {
				dlq = true
				Expect(m.Attempt).To(Equal(3))
				return nil
			}

			Expect(w.processOneBatch(ctx)).To(Succeed())
			Expect(dlq).To(BeTrue())
		})

		It("should recover from a panic and requeue", func() {
			consumer.ReadFn = func(_ context.Context) ([]queue.Message, error) {
				return []queue.Message{msg}, nil
			}
			engine.RunFn = func(_ context.Context, _ *model.Analysis, _, _ string) (*analysis.Result, error) {
				panic("boom")
			}
			var requeued bool
			consumer.RequeueFn = func(_ context.Context, _ queue.Message, errMsg string) error {
				requeued = true
				Expect(errMsg).To(ContainSubstring("panic"))
				return nil
			}

			Expect(w.processOneBatch(ctx)).To(Succeed())
			Expect(requeued).To(BeTrue())
		})
	})
})
