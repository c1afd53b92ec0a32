package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fablelens.app/analyzer/common/llm"
)

const translatePromptPrefix = "Translate the following book titles into Korean. Maintain the original order and provide only the translated titles, one per line. Do not add numbers or bullets.\n\n"

// TranslateTitles translates the English titles to Korean in a single
// generation call and returns the translations aligned by position.
// When the model returns a different number of lines than requested,
// the English titles are kept as display titles rather than guessing
// at the alignment.
func TranslateTitles(ctx context.Context, client llm.Client, titles []string) ([]string, error) {
	if len(titles) == 0 {
		return nil, nil
	}

	prompt := translatePromptPrefix + strings.Join(titles, "\n")

	response, err := client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("translating titles: %w", err)
	}

	translated := strings.Split(strings.TrimSpace(response), "\n")
	if len(translated) != len(titles) {
		slog.WarnContext(ctx, "translated title count mismatch, keeping english titles",
			"requested", len(titles),
			"received", len(translated))
		return append([]string(nil), titles...), nil
	}

	for i, title := range translated {
		translated[i] = strings.TrimSpace(title)
		if translated[i] == "" {
			translated[i] = titles[i]
		}
	}

	return translated, nil
}
