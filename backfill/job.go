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

package backfill

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/chronicle/core"
	"github.com/poiesic/chronicle/gateway"
	"github.com/poiesic/chronicle/storage"
	"golang.org/x/time/rate"
)

// Outcome is what happened to one entity during a run.
type Outcome int

const (
	OutcomeProcessed Outcome = iota + 1
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Failure describes one entity that could not be embedded.
type Failure struct {
	EntityID core.ID
	Name     string
	// Err wraps core.ErrGateway or core.ErrStore.
	Err error
}

// Report summarises a run. Processed + Skipped + Failed equals Total unless
// the run was cancelled.
type Report struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
	Failures  []Failure
	Elapsed   time.Duration
}

// Job embeds every entity that is missing an embedding.
type Job struct {
	repository storage.EntityRepository
	embedder   gateway.Embedder
	config     Config
	progress   io.Writer
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Job.
type Option func(*Job)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(j *Job) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// NewJob creates a backfill job.
// progress: where to write progress output (typically os.Stderr), nil for none
func NewJob(repository storage.EntityRepository, embedder gateway.Embedder, config *Config, progress io.Writer, opts ...Option) (*Job, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = io.Discard
	}

	j := &Job{
		repository: repository,
		embedder:   embedder,
		config:     *config,
		progress:   progress,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.logger = j.logger.With("component", "backfill")

	if config.RateLimit > 0 {
		j.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst)
	}

	return j, nil
}

// Run executes one backfill pass.
// A store failure while listing aborts the run with core.ErrStore. Per-entity
// failures are counted and never abort the run. On cancellation the partial
// report is returned together with ctx.Err().
func (j *Job) Run(ctx context.Context) (*Report, error) {
	start := time.Now()

	missing, err := j.repository.FindMissingEmbedding(ctx)
	if err != nil {
		j.logger.Error("failed to list entities missing embeddings", "err", err)
		return nil, fmt.Errorf("%w: %w", core.ErrStore, err)
	}

	report := &Report{Total: len(missing)}
	if report.Total == 0 {
		fmt.Fprintf(j.progress, "No entities missing embeddings\n")
		report.Elapsed = time.Since(start)
		return report, nil
	}

	fmt.Fprintf(j.progress, "Starting backfill of %d entities (workers: %d)\n",
		report.Total, j.config.Workers)

	tracker := NewProgressTracker(j.progress, report.Total, j.config.ReportInterval)
	tracker.Start()

	var mu sync.Mutex
	record := func(entity *core.Entity, outcome Outcome, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case OutcomeProcessed:
			report.Processed++
		case OutcomeSkipped:
			report.Skipped++
		case OutcomeFailed:
			report.Failed++
			report.Failures = append(report.Failures, Failure{EntityID: entity.Id, Name: entity.Name, Err: err})
		default:
			// cancelled before it was attempted
			return
		}
		tracker.Record(outcome)
	}

	if j.config.Workers <= 1 {
		for _, entity := range missing {
			if ctx.Err() != nil {
				break
			}
			outcome, err := j.process(ctx, entity)
			record(entity, outcome, err)
		}
	} else {
		if err := j.runPool(ctx, missing, record); err != nil {
			return nil, err
		}
	}

	tracker.Finish()
	report.Elapsed = time.Since(start)

	if err := ctx.Err(); err != nil {
		j.logger.Warn("backfill cancelled", "processed", report.Processed, "skipped", report.Skipped, "failed", report.Failed)
		return report, err
	}

	fmt.Fprintf(j.progress, "Backfill complete. %d processed, %d skipped, %d failed of %d in %v\n",
		report.Processed, report.Skipped, report.Failed, report.Total, report.Elapsed.Round(time.Millisecond))
	j.logger.Info("backfill complete",
		"total", report.Total, "processed", report.Processed,
		"skipped", report.Skipped, "failed", report.Failed)

	return report, nil
}

// runPool processes entities on a bounded ants pool and waits for all of them.
func (j *Job) runPool(ctx context.Context, entities []*core.Entity, record func(*core.Entity, Outcome, error)) error {
	pool, err := ants.NewPool(j.config.Workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, entity := range entities {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			outcome, err := j.process(ctx, entity)
			record(entity, outcome, err)
		})
		if err != nil {
			wg.Done()
			j.logger.Error("failed to submit entity", "id", entity.Id, "err", err)
			record(entity, OutcomeFailed, err)
		}
	}
	wg.Wait()
	return nil
}

// process embeds one entity's description and stores the vector.
// Returns outcome 0 when ctx ended before the entity was attempted.
func (j *Job) process(ctx context.Context, entity *core.Entity) (Outcome, error) {
	if !entity.HasDescription() {
		j.logger.Debug("skipping entity without description", "id", entity.Id, "name", entity.Name)
		return OutcomeSkipped, nil
	}

	if j.limiter != nil {
		if err := j.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return 0, nil
			}
			return OutcomeFailed, fmt.Errorf("%w: %w", core.ErrGateway, err)
		}
	}
	if ctx.Err() != nil {
		return 0, nil
	}

	vector, err := j.embed(ctx, *entity.Description)
	if err != nil {
		j.logger.Warn("failed to embed entity", "id", entity.Id, "name", entity.Name, "err", err)
		return OutcomeFailed, err
	}

	if err := j.repository.UpdateEmbedding(ctx, entity.Id, vector); err != nil {
		j.logger.Warn("failed to store embedding", "id", entity.Id, "name", entity.Name, "err", err)
		return OutcomeFailed, fmt.Errorf("%w: %w", core.ErrStore, err)
	}

	j.logger.Debug("embedded entity", "id", entity.Id, "name", entity.Name, "dimension", len(vector))
	return OutcomeProcessed, nil
}

func (j *Job) embed(ctx context.Context, text string) ([]float32, error) {
	if j.config.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.CallTimeout)
		defer cancel()
	}

	vector, err := j.embedder.EmbedText(ctx, text)
	if err == nil && len(vector) == 0 {
		err = gateway.ErrEmptyEmbedding
	}
	if err != nil {
		if errors.Is(err, core.ErrGateway) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrGateway, err)
	}
	return vector, nil
}
