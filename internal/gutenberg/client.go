// Package gutenberg streams novels from the manu/project_gutenberg
// dataset hosted on the Hugging Face hub. The datasets-server /rows API
// truncates novel-sized cells, so shards are downloaded whole and read
// with a parquet reader instead.
package gutenberg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"fablelens.app/analyzer/common/logger"
)

const (
	// Dataset holding the Project Gutenberg corpus.
	Dataset = "manu/project_gutenberg"

	// SplitEnglish selects the English books.
	SplitEnglish = "en"

	datasetsServerURL = "https://datasets-server.huggingface.co"
)

// ErrStopIteration tells Stream to stop early without error.
var ErrStopIteration = errors.New("stop iteration")

// Shard describes one parquet file of a dataset split.
type Shard struct {
	Config   string `json:"config"`
	Split    string `json:"split"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

type parquetListing struct {
	ParquetFiles []Shard `json:"parquet_files"`
}

type document struct {
	Text string `parquet:"text"`
}

type Client struct {
	http    *http.Client
	baseURL string
}

type Option func(*Client)

// WithBaseURL overrides the datasets-server endpoint, for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = base }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		// Shards are hundreds of MB; the transfer dominates.
		http:    &http.Client{Timeout: 30 * time.Minute},
		baseURL: datasetsServerURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the parquet shards of a dataset split in listed order.
func (c *Client) List(ctx context.Context, dataset, split string) ([]Shard, error) {
	endpoint := fmt.Sprintf("%s/parquet?dataset=%s", c.baseURL, url.QueryEscape(dataset))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building parquet listing request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing parquet shards: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("listing parquet shards: unexpected status %d: %s", resp.StatusCode, body)
	}

	var listing parquetListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decoding parquet listing: %w", err)
	}

	var shards []Shard
	for _, shard := range listing.ParquetFiles {
		if shard.Split == split {
			shards = append(shards, shard)
		}
	}
	if len(shards) == 0 {
		return nil, fmt.Errorf("no parquet shards for dataset %s split %s", dataset, split)
	}
	return shards, nil
}

// Stream reads the documents of a split in shard order and calls fn
// with each document's text. Returning ErrStopIteration from fn ends
// the stream cleanly.
func (c *Client) Stream(ctx context.Context, dataset, split string, fn func(text string) error) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "analyzer.gutenberg",
	})

	shards, err := c.List(ctx, dataset, split)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "streaming dataset",
		"dataset", dataset,
		"split", split,
		"shards", len(shards))

	for _, shard := range shards {
		stop, err := c.streamShard(ctx, shard, fn)
		if err != nil {
			return fmt.Errorf("shard %s: %w", shard.Filename, err)
		}
		if stop {
			return nil
		}
	}
	return nil
}

func (c *Client) streamShard(ctx context.Context, shard Shard, fn func(text string) error) (stopped bool, err error) {
	path, err := c.download(ctx, shard)
	if err != nil {
		return false, err
	}
	defer os.Remove(path)

	file, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening shard: %w", err)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[document](file)
	defer reader.Close()

	rows := make([]document, 32)
	for {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}

		n, readErr := reader.Read(rows)
		for i := range n {
			if err := fn(rows[i].Text); err != nil {
				if errors.Is(err, ErrStopIteration) {
					return true, nil
				}
				return false, err
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("reading rows: %w", readErr)
		}
	}
}

// download fetches a shard to a temp file so the parquet reader can
// seek through its footer and column chunks.
func (c *Client) download(ctx context.Context, shard Shard) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, shard.URL, nil)
	if err != nil {
		return "", fmt.Errorf("building shard request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading shard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading shard: unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "gutenberg-*.parquet")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	start := time.Now()
	written, err := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing shard: %w", err)
	}
	if closeErr != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("closing shard file: %w", closeErr)
	}

	slog.InfoContext(ctx, "shard downloaded",
		"filename", shard.Filename,
		"bytes", written,
		"duration_ms", time.Since(start).Milliseconds())

	return tmp.Name(), nil
}
