package queue_test

import (
	"github.com/redis/go-redis/v9"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"fablelens.app/analyzer/internal/queue"
)

var _ = Describe("ParseMessage", func() {
	message := func(values map[string]any) redis.XMessage {
		return redis.XMessage{ID: "1-0", Values: values}
	}

	It("should parse a complete message", func() {
		msg, err := queue.ParseMessage(message(map[string]any{
			"analysis_id": "100",
			"book_id":     "42",
			"kind":        "summary",
			"attempt":     "2",
			"trace_id":    "abc123",
		}))

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.AnalysisID).To(Equal(int64(100)))
		Expect(msg.BookID).To(Equal(int64(42)))
		Expect(msg.Kind).To(Equal("summary"))
		Expect(msg.Attempt).To(Equal(2))
		Expect(msg.TraceID).To(Equal("abc123"))
	})

	It("should default a missing attempt to 1", func() {
		msg, err := queue.ParseMessage(message(map[string]any{
			"analysis_id": "100",
			"book_id":     "42",
			"kind":        "persona",
		}))

		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Attempt).To(Equal(1))
		Expect(msg.TraceID).To(BeEmpty())
	})

	It("should reject a missing analysis_id", func() {
		_, err := queue.ParseMessage(message(map[string]any{
			"book_id": "42",
			"kind":    "summary",
		}))

		Expect(err).To(MatchError(ContainSubstring("missing analysis_id")))
	})

	It("should reject a non-numeric book_id", func() {
		_, err := queue.ParseMessage(message(map[string]any{
			"analysis_id": "100",
			"book_id":     "forty-two",
			"kind":        "summary",
		}))

		Expect(err).To(MatchError(ContainSubstring("parsing book_id")))
	})

	It("should reject an unknown kind", func() {
		_, err := queue.ParseMessage(message(map[string]any{
			"analysis_id": "100",
			"book_id":     "42",
			"kind":        "poetry",
		}))

		Expect(err).To(MatchError(ContainSubstring(`unknown kind "poetry"`)))
	})
})

var _ = Describe("ProgressStreamName", func() {
	It("should scope the stream to the analysis id", func() {
		Expect(queue.ProgressStreamName(123)).To(Equal("analysis-stream:123"))
	})
})
