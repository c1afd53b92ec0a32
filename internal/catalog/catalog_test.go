package catalog_test

import (
	"context"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"fablelens.app/analyzer/internal/catalog"
)

// doc builds a corpus document long enough to pass the length filter.
func doc(title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The Project Gutenberg eBook\n\nTitle: %s\n\nAuthor: Somebody\n\n", title)
	b.WriteString(strings.Repeat("It was a dark and stormy night. ", catalog.MinBookLength/32+1))
	return b.String()
}

var _ = Describe("Builder", func() {
	var builder *catalog.Builder

	BeforeEach(func() {
		builder = catalog.NewBuilder()
	})

	It("should skip documents shorter than the minimum length", func() {
		Expect(builder.Consider("Title: Tiny Pamphlet\n\nshort")).To(BeTrue())
		Expect(builder.Books()).To(BeEmpty())
	})

	It("should skip documents without a title header", func() {
		text := strings.Repeat("no header here. ", catalog.MinBookLength/16)
		Expect(builder.Consider(text)).To(BeTrue())
		Expect(builder.Books()).To(BeEmpty())
	})

	It("should extract and trim the title case-insensitively", func() {
		text := strings.Replace(doc("x"), "Title: x", "tItLe:   Moby Dick; or, The Whale  ", 1)
		builder.Consider(text)

		books := builder.Books()
		Expect(books).To(HaveLen(1))
		Expect(books[0].Title).To(Equal("Moby Dick; or, The Whale"))
		Expect(books[0].Priority).To(BeTrue())
	})

	It("should deduplicate exact titles", func() {
		builder.Consider(doc("The Time Machine"))
		builder.Consider(doc("The Time Machine"))
		Expect(builder.Books()).To(HaveLen(1))
	})

	It("should match priority keywords against hyphen-folded lowercase titles", func() {
		builder.Consider(doc("MOBY-DICK"))

		books := builder.Books()
		Expect(books).To(HaveLen(1))
		Expect(books[0].Priority).To(BeTrue())
	})

	It("should consume each priority keyword at most once", func() {
		builder.Consider(doc("The Adventures of Sherlock Holmes"))
		builder.Consider(doc("The Return of Sherlock Holmes"))

		books := builder.Books()
		Expect(books).To(HaveLen(2))
		Expect(books[0].Priority).To(BeTrue())
		// Second match lands in the ordinary pool
		Expect(books[1].Priority).To(BeFalse())
	})

	It("should cap non-priority books at MaxBooks minus the keyword count", func() {
		limit := catalog.MaxBooks - len(catalog.PriorityKeywords)
		for i := range limit + 10 {
			builder.Consider(doc(fmt.Sprintf("Ordinary Novel %d", i)))
		}

		books := builder.Books()
		Expect(books).To(HaveLen(limit))
		for _, b := range books {
			Expect(b.Priority).To(BeFalse())
		}
	})

	It("should still accept priority books when the ordinary pool is full", func() {
		for i := range catalog.MaxBooks {
			builder.Consider(doc(fmt.Sprintf("Ordinary Novel %d", i)))
		}
		builder.Consider(doc("Dracula"))

		books := builder.Books()
		Expect(books).To(HaveLen(catalog.MaxBooks - len(catalog.PriorityKeywords) + 1))
		Expect(books[0].Title).To(Equal("Dracula"))
	})

	It("should order priority books before the others, each in discovery order", func() {
		builder.Consider(doc("Plain Book One"))
		builder.Consider(doc("Dracula"))
		builder.Consider(doc("Plain Book Two"))
		builder.Consider(doc("Peter Pan"))

		titles := make([]string, 0, 4)
		for _, b := range builder.Books() {
			titles = append(titles, b.Title)
		}
		Expect(titles).To(Equal([]string{"Dracula", "Peter Pan", "Plain Book One", "Plain Book Two"}))
	})

	It("should signal stop on the call that fills the library", func() {
		for _, kw := range catalog.PriorityKeywords {
			Expect(builder.Consider(doc(kw))).To(BeTrue())
		}
		fill := catalog.MaxBooks - len(catalog.PriorityKeywords)
		for i := range fill - 1 {
			Expect(builder.Consider(doc(fmt.Sprintf("Ordinary Novel %d", i)))).To(BeTrue())
		}

		// The call that collects the last slot must not ask for more.
		Expect(builder.Consider(doc("The Last Ordinary Novel"))).To(BeFalse())
		Expect(builder.Books()).To(HaveLen(catalog.MaxBooks))
	})

	It("should stop after the scan limit", func() {
		short := "too short"
		for i := 0; i < catalog.SearchLimit-1; i++ {
			Expect(builder.Consider(short)).To(BeTrue())
		}
		Expect(builder.Consider(short)).To(BeFalse())
		Expect(builder.Scanned()).To(Equal(catalog.SearchLimit))
	})
})

var _ = Describe("NormalizeTitle", func() {
	It("should lowercase and fold hyphens to spaces", func() {
		Expect(catalog.NormalizeTitle("Moby-Dick; Or, The WHALE")).To(Equal("moby dick; or, the whale"))
	})
})

var _ = Describe("Collect", func() {
	It("should stop the stream once the library is full", func() {
		src := &fakeStreamer{}
		for _, kw := range catalog.PriorityKeywords {
			src.docs = append(src.docs, doc(kw))
		}
		for i := range 60 {
			src.docs = append(src.docs, doc(fmt.Sprintf("Ordinary Novel %d", i)))
		}

		books, err := catalog.Collect(context.Background(), src, "dataset", "en")

		Expect(err).NotTo(HaveOccurred())
		Expect(books).To(HaveLen(catalog.MaxBooks))
		Expect(src.served).To(BeNumerically("<", len(src.docs)))
	})
})

type fakeStreamer struct {
	docs   []string
	served int
}

func (f *fakeStreamer) Stream(_ context.Context, _, _ string, fn func(string) error) error {
	for _, d := range f.docs {
		f.served++
		if err := fn(d); err != nil {
			return nil
		}
	}
	return nil
}
