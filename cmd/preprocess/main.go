// Command preprocess builds the curated novel library: it scans the
// Project Gutenberg dataset, selects up to 50 novels with famous titles
// prioritized, translates the titles to Korean in one Gemini call and
// stores the result in Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fablelens.app/analyzer/common/id"
	"fablelens.app/analyzer/common/llm"
	"fablelens.app/analyzer/common/logger"
	"fablelens.app/analyzer/common/otel"
	"fablelens.app/analyzer/core/config"
	"fablelens.app/analyzer/core/db"
	"fablelens.app/analyzer/internal/catalog"
	"fablelens.app/analyzer/internal/gutenberg"
	"fablelens.app/analyzer/internal/model"
	"fablelens.app/analyzer/internal/service"
)

func main() {
	exportDir := flag.String("export-dir", "", "also write books_data.json and korean_map.json to this directory")
	replace := flag.Bool("replace", true, "delete existing gutenberg-sourced books before inserting")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypePreprocess)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if err := cfg.RequireLLM(); err != nil {
		slog.ErrorContext(ctx, "llm not configured", "error", err)
		os.Exit(1)
	}

	if err := id.Init(3); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "preprocess starting",
		"dataset", gutenberg.Dataset,
		"split", gutenberg.SplitEnglish,
		"max_books", catalog.MaxBooks)

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	llmClient, err := llm.New(llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Model:    cfg.LLM.Model,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create llm client", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, database, llmClient, *exportDir, *replace); err != nil {
		slog.ErrorContext(ctx, "preprocess failed", "error", err)
		os.Exit(1)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "preprocess complete")
}

func run(ctx context.Context, database *db.DB, llmClient llm.Client, exportDir string, replace bool) error {
	entries, err := catalog.Collect(ctx, gutenberg.NewClient(), gutenberg.Dataset, gutenberg.SplitEnglish)
	if err != nil {
		return fmt.Errorf("collecting books: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no books collected")
	}

	titles := make([]string, len(entries))
	for i, entry := range entries {
		titles[i] = entry.Title
	}

	slog.InfoContext(ctx, "translating titles", "count", len(titles), "model", llmClient.Model())
	koreanTitles, err := catalog.TranslateTitles(ctx, llmClient, titles)
	if err != nil {
		return err
	}

	if err := storeBooks(ctx, database, entries, koreanTitles, replace); err != nil {
		return err
	}

	if exportDir != "" {
		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return fmt.Errorf("creating export dir: %w", err)
		}
		if err := catalog.WriteExport(exportDir, entries, koreanTitles); err != nil {
			return err
		}
		slog.InfoContext(ctx, "export written", "dir", exportDir)
	}

	return nil
}

// storeBooks replaces the curated library in one transaction so readers
// never observe a half-built catalog.
func storeBooks(ctx context.Context, database *db.DB, entries []catalog.Entry, koreanTitles []string, replace bool) error {
	txRunner := service.NewTxRunner(database)

	err := txRunner.WithTx(ctx, func(sp service.StoreProvider) error {
		if replace {
			if err := sp.Books().DeleteBySource(ctx, model.BookSourceGutenberg); err != nil {
				return fmt.Errorf("deleting existing books: %w", err)
			}
		}

		for i, entry := range entries {
			book := &model.Book{
				ID:            id.New(),
				Title:         entry.Title,
				KoreanTitle:   koreanTitles[i],
				Source:        model.BookSourceGutenberg,
				Priority:      entry.Priority,
				Position:      int32(i),
				Content:       entry.Text,
				ContentLength: int32(len(entry.Text)),
			}
			if err := sp.Books().Create(ctx, book); err != nil {
				return fmt.Errorf("storing book %q: %w", entry.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "library stored", "books", len(entries))
	return nil
}
