// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/specmatch"
	"github.com/poiesic/specmatch/ai"
	"github.com/poiesic/specmatch/catalog"
	"github.com/poiesic/specmatch/config"
	"github.com/poiesic/specmatch/core"
	"github.com/poiesic/specmatch/match"
	"github.com/poiesic/specmatch/normalize"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "specmatch",
		Usage: "Match RFP cable requirements against a product catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load a product catalog file into the match database",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to product catalog JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of products to embed in each batch",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N products",
						Value: 10,
					},
				},
			},
			{
				Name:   "match",
				Usage:  "Match RFP line items against the catalog",
				Action: matchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "items",
						Aliases:  []string{"i"},
						Usage:    "Path to RFP items JSON file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a specmatch config file (weights, thresholds, hosts)",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL (overrides config)",
					},
					&cli.StringFlag{
						Name:  "extractor-host",
						Usage: "Extractor service host URL (overrides config)",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	specs, err := catalog.LoadFile(c.String("catalog"))
	if err != nil {
		return err
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	matcher, err := specmatch.Open(c.String("db"), specmatch.WithAIConfig(aiConfig))
	if err != nil {
		return fmt.Errorf("failed to open match database: %w", err)
	}
	defer matcher.Close()

	progress := catalog.NewProgressTracker(os.Stderr, len(specs), c.Int("report-interval"))
	loader, err := matcher.NewLoader(
		catalog.WithPoolSize(c.Int("pool-size")),
		catalog.WithBatchSize(c.Int("batch-size")),
		catalog.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		catalog.WithProgress(progress),
	)
	if err != nil {
		return fmt.Errorf("failed to create loader: %w", err)
	}
	defer loader.Release()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Catalog: %s (%d products)\n", c.String("catalog"), len(specs))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	count, err := loader.Load(ctx, specs)
	if err != nil {
		return fmt.Errorf("catalog load failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Loaded %d products in %s\n", count, progress.Elapsed().Round(time.Millisecond))
	return nil
}

// itemSpec is one RFP line item as read from the items file.
type itemSpec struct {
	ItemID     int               `json:"item_id"`
	SpecText   string            `json:"spec_text"`
	Quantity   string            `json:"quantity,omitempty"`
	Unit       string            `json:"unit,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

func matchCommand(c *cli.Context) error {
	ctx := context.Background()

	items, err := loadItems(c.String("items"))
	if err != nil {
		return err
	}

	cfg, err := config.LoadFrom(c.String("config"))
	if err != nil {
		return err
	}
	embeddingHost := cfg.AI.EmbeddingHost
	if host := c.String("embedding-host"); host != "" {
		embeddingHost = host
	}
	extractorHost := cfg.AI.ExtractorHost
	if host := c.String("extractor-host"); host != "" {
		extractorHost = host
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithExtractorHost(extractorHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithExtractorModel(cfg.AI.ExtractorModel),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	matcher, err := specmatch.Open(c.String("db"),
		specmatch.WithAIConfig(aiConfig),
		specmatch.WithWeights(cfg.Weights()),
		specmatch.WithThresholds(cfg.Thresholds()),
	)
	if err != nil {
		return fmt.Errorf("failed to open match database: %w", err)
	}
	defer matcher.Close()

	pipeline, err := matcher.NewPipeline(
		match.WithTopK(cfg.Matching.TopK),
		match.WithTopN(cfg.Matching.TopN),
		match.WithMinViableScore(cfg.Matching.MinViableScore),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	results := pipeline.MatchBatch(ctx, items)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// loadItems reads RFP line items from a JSON file.
// Items without an explicit quantity get one parsed out of the spec text.
func loadItems(path string) ([]*core.RFPItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading items file: %w", err)
	}

	var specs []itemSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing items file %s: %w", path, err)
	}

	items := make([]*core.RFPItem, len(specs))
	for i, spec := range specs {
		item := &core.RFPItem{
			ItemID:   spec.ItemID,
			SpecText: spec.SpecText,
			Quantity: spec.Quantity,
			Unit:     spec.Unit,
		}
		if item.ItemID == 0 {
			item.ItemID = i + 1
		}
		if item.Quantity == "" {
			if quantity, unit, ok := normalize.ParseQuantity(spec.SpecText); ok {
				item.Quantity = quantity
				item.Unit = unit
			}
		}
		if len(spec.Attributes) > 0 {
			item.RawAttributes = make(map[core.AttributeKey]string, len(spec.Attributes))
			for key, value := range spec.Attributes {
				item.RawAttributes[core.AttributeKey(key)] = value
			}
		}
		items[i] = item
	}
	return items, nil
}

func setup(c *cli.Context) error {
	// Optional .env for service hosts and credentials
	_ = godotenv.Load()

	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
