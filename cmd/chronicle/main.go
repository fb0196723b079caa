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
	"os/signal"
	"strings"
	"time"

	"github.com/poiesic/chronicle"
	"github.com/poiesic/chronicle/backfill"
	"github.com/poiesic/chronicle/gateway"
	"github.com/poiesic/chronicle/search"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "chronicle",
		Usage: "Entity resolution and semantic search over historical figures and events",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"CHRONICLE_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Resolve a free-text query to entities",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum cosine similarity for semantic matches",
						Value: search.DefaultThreshold,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of semantic matches",
						Value: search.DefaultTopK,
					},
					&cli.IntFlag{
						Name:  "lexical-limit",
						Usage: "Maximum number of lexical matches",
						Value: search.DefaultLexicalLimit,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON",
					},
					&cli.BoolFlag{
						Name:  "trace",
						Usage: "Print each search stage to stderr",
					},
				}, gatewayFlags()...),
			},
			{
				Name:   "backfill",
				Usage:  "Compute embeddings for entities that are missing one",
				Action: backfillCommand,
				Flags: append([]cli.Flag{
					dbFlag(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of entities embedded concurrently",
						Value: 1,
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Maximum gateway calls per second (0 = unlimited)",
					},
					&cli.IntFlag{
						Name:  "burst",
						Usage: "Calls allowed at once under --rate",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N entities",
						Value: backfill.DefaultConfig().ReportInterval,
					},
					&cli.DurationFlag{
						Name:  "call-timeout",
						Usage: "Upper bound on one entity's gateway call, retries included (0 = none)",
						Value: backfill.DefaultConfig().CallTimeout,
					},
				}, gatewayFlags()...),
			},
			{
				Name:   "seed",
				Usage:  "Import entities from a YAML file",
				Action: seedCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML file listing entities",
						Required: true,
					},
				},
			},
			{
				Name:   "dictionary",
				Usage:  "Print dictionary entries in match order",
				Action: dictionaryCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
		EnvVars:  []string{"CHRONICLE_DB"},
	}
}

func gatewayFlags() []cli.Flag {
	defaults := gateway.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-kind",
			Usage:   "Embedding service flavour (http, openai)",
			Value:   defaults.Kind,
			EnvVars: []string{"CHRONICLE_EMBEDDING_KIND"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service URL",
			Value:   defaults.Host,
			EnvVars: []string{"CHRONICLE_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name (openai only)",
			Value:   defaults.Model,
			EnvVars: []string{"CHRONICLE_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "embedding-token",
			Usage:   "Bearer token for the embedding service",
			EnvVars: []string{"CHRONICLE_EMBEDDING_TOKEN"},
		},
		&cli.IntFlag{
			Name:  "embedding-dim",
			Usage: "Expected embedding dimension (0 = accept any)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Timeout for each embedding request",
			Value: defaults.Timeout,
		},
		&cli.IntFlag{
			Name:  "max-attempts",
			Usage: "Attempts per embedding request, including the first",
			Value: defaults.MaxAttempts,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: defaults.RetryDelay,
		},
		&cli.UintFlag{
			Name:  "breaker-failures",
			Usage: "Consecutive failures that open the circuit breaker (0 = disabled)",
		},
		&cli.DurationFlag{
			Name:  "breaker-timeout",
			Usage: "How long the circuit breaker stays open",
			Value: defaults.BreakerTimeout,
		},
		&cli.IntFlag{
			Name:  "cache-size",
			Usage: "Number of query embeddings to cache (0 = disabled)",
		},
	}
}

func gatewayConfig(c *cli.Context) *gateway.Config {
	return gateway.NewConfig(
		gateway.WithKind(c.String("embedding-kind")),
		gateway.WithHost(c.String("embedding-host")),
		gateway.WithModel(c.String("embedding-model")),
		gateway.WithToken(c.String("embedding-token")),
		gateway.WithDimension(c.Int("embedding-dim")),
		gateway.WithTimeout(c.Duration("timeout")),
		gateway.WithRetry(c.Int("max-attempts"), c.Duration("retry-delay")),
		gateway.WithBreaker(uint32(c.Uint("breaker-failures")), c.Duration("breaker-timeout")),
		gateway.WithCacheSize(c.Int("cache-size")),
	)
}

func openDatabase(c *cli.Context, cfg *gateway.Config) (*chronicle.Database, error) {
	opts := []chronicle.DatabaseOption{chronicle.WithLogger(slog.Default())}
	if cfg != nil {
		opts = append(opts, chronicle.WithGatewayConfig(cfg))
	}
	db, err := chronicle.NewDatabase(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func commandContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt)
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	cfg := gatewayConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid gateway configuration: %w", err)
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher(
		search.WithThreshold(c.Float64("threshold")),
		search.WithTopK(c.Int("top-k")),
		search.WithLexicalLimit(c.Int("lexical-limit")),
		// the guard already applies --timeout to every attempt
		search.WithGatewayTimeout(0),
	)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	ctx, cancel := commandContext(c)
	defer cancel()

	var monitor search.SearchMonitor
	if c.Bool("trace") {
		monitor = &traceMonitor{w: c.App.ErrWriter, start: time.Now()}
	}

	result, err := searcher.SearchWithMonitor(ctx, query, monitor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := c.App.Writer
	if c.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.NoResult {
		fmt.Fprintln(out, "No result")
		return nil
	}
	fmt.Fprintf(out, "Found %d %s matches\n", len(result.Matches), result.Source)
	for i, m := range result.Matches {
		fmt.Fprintf(out, "%d: %s [%s] (%d)[%0.3f]\n", i+1, m.Entity.Name, m.Entity.Kind, m.Entity.Id, m.Similarity)
	}
	return nil
}

func backfillCommand(c *cli.Context) error {
	cfg := gatewayConfig(c)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid gateway configuration: %w", err)
	}

	jobConfig := backfill.DefaultConfig()
	jobConfig.Workers = c.Int("workers")
	jobConfig.RateLimit = c.Float64("rate")
	jobConfig.Burst = c.Int("burst")
	jobConfig.CallTimeout = c.Duration("call-timeout")
	jobConfig.ReportInterval = c.Int("report-interval")
	if err := jobConfig.Validate(); err != nil {
		return err
	}

	db, err := openDatabase(c, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	job, err := db.NewBackfillJob(jobConfig, c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("failed to create backfill job: %w", err)
	}

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", c.String("db"))
	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s (%s)\n", cfg.Host, cfg.Kind)
	fmt.Fprintln(c.App.ErrWriter)

	ctx, cancel := commandContext(c)
	defer cancel()

	report, err := job.Run(ctx)
	if report != nil {
		fmt.Fprintf(c.App.Writer, "processed=%d skipped=%d failed=%d total=%d\n",
			report.Processed, report.Skipped, report.Failed, report.Total)
		for _, f := range report.Failures {
			fmt.Fprintf(c.App.ErrWriter, "failed: %s (%d): %v\n", f.Name, f.EntityID, f.Err)
		}
	}
	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	entities, err := loadSeedFile(c.String("file"))
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		fmt.Fprintln(c.App.Writer, "No entities to import")
		return nil
	}

	db, err := openDatabase(c, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	added, err := db.AddEntities(c.Context, entities...)
	if err != nil {
		return fmt.Errorf("failed to import entities: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Imported %d entities (%d dictionary entries)\n",
		len(added), db.Dictionary().Load().Len())
	return nil
}

func dictionaryCommand(c *cli.Context) error {
	db, err := openDatabase(c, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, e := range db.Dictionary().Load().Entries() {
		fmt.Fprintf(c.App.Writer, "%s\t%d\n", e.Text, e.EntityID)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
