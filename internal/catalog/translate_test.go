package catalog_test

import (
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"fablelens.app/analyzer/internal/catalog"
)

type fakeLLM struct {
	generateFn func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return f.generateFn(ctx, prompt)
}

func (f *fakeLLM) Model() string { return "fake" }

var _ = Describe("TranslateTitles", func() {
	var (
		ctx    context.Context
		client *fakeLLM
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &fakeLLM{}
	})

	It("should send all titles in one prompt, one per line", func() {
		var prompt string
		client.generateFn = func(_ context.Context, p string) (string, error) {
			prompt = p
			return "드라큘라\n피터 팬", nil
		}

		translated, err := catalog.TranslateTitles(ctx, client, []string{"Dracula", "Peter Pan"})

		Expect(err).NotTo(HaveOccurred())
		Expect(prompt).To(HavePrefix("Translate the following book titles into Korean. Maintain the original order and provide only the translated titles, one per line. Do not add numbers or bullets.\n\n"))
		Expect(prompt).To(HaveSuffix("Dracula\nPeter Pan"))
		Expect(translated).To(Equal([]string{"드라큘라", "피터 팬"}))
	})

	It("should trim surrounding whitespace from the response", func() {
		client.generateFn = func(_ context.Context, _ string) (string, error) {
			return "\n드라큘라\n피터 팬\n\n", nil
		}

		translated, err := catalog.TranslateTitles(ctx, client, []string{"Dracula", "Peter Pan"})

		Expect(err).NotTo(HaveOccurred())
		Expect(translated).To(Equal([]string{"드라큘라", "피터 팬"}))
	})

	It("should fall back to english titles on a count mismatch", func() {
		client.generateFn = func(_ context.Context, _ string) (string, error) {
			return "드라큘라", nil
		}

		translated, err := catalog.TranslateTitles(ctx, client, []string{"Dracula", "Peter Pan"})

		Expect(err).NotTo(HaveOccurred())
		Expect(translated).To(Equal([]string{"Dracula", "Peter Pan"}))
	})

	It("should propagate generation errors", func() {
		client.generateFn = func(_ context.Context, _ string) (string, error) {
			return "", errors.New("rate limited")
		}

		_, err := catalog.TranslateTitles(ctx, client, []string{"Dracula"})

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("translating titles"))
	})

	It("should return nil for an empty title list without calling the model", func() {
		called := false
		client.generateFn = func(_ context.Context, _ string) (string, error) {
			called = true
			return "", nil
		}

		translated, err := catalog.TranslateTitles(ctx, client, nil)

		Expect(err).NotTo(HaveOccurred())
		Expect(translated).To(BeNil())
		Expect(called).To(BeFalse())
	})
})

var _ = Describe("translation prompt size", func() {
	It("should join many titles without truncation", func() {
		titles := make([]string, 50)
		lines := make([]string, 50)
		for i := range titles {
			titles[i] = strings.Repeat("t", 10)
			lines[i] = "제목"
		}

		client := &fakeLLM{generateFn: func(_ context.Context, _ string) (string, error) {
			return strings.Join(lines, "\n"), nil
		}}

		translated, err := catalog.TranslateTitles(context.Background(), client, titles)
		Expect(err).NotTo(HaveOccurred())
		Expect(translated).To(HaveLen(50))
	})
})
