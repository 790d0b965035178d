// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package retry implements the batched, rate-limited, retry-until-
// complete loop used by the historical price, market-cap and benchmark
// backfills and by the ratio refresh. Symbol, profile and forex loads do
// not go through it.
package retry

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/quantledger/fmpdata/model"
)

// PacingConfig mirrors spec.md §4.C4's {batch_size, rps_target,
// base_sleep, max_retries} tuple.
type PacingConfig struct {
	BatchSize  int
	RPSTarget  float64
	BaseSleep  time.Duration
	MaxRetries int
	MaxItems   int // 0 means no sampling cap
}

// DefaultPacing matches the teacher corpus's typical per-batch shape:
// 250-item batches, 7 reconciliation passes.
func DefaultPacing() PacingConfig {
	return PacingConfig{
		BatchSize:  250,
		RPSTarget:  50,
		BaseSleep:  2 * time.Second,
		MaxRetries: 7,
	}
}

// Driver[T] wraps any per-item async fetch function with batching,
// pacing and missing-item reconciliation.
type Driver[T any] struct {
	Pacing PacingConfig
}

// New builds a Driver with the given pacing configuration.
func New[T any](pacing PacingConfig) *Driver[T] {
	return &Driver[T]{Pacing: pacing}
}

// FetchFunc fetches and stages a single item. It must not promote --
// promotion happens once per batch via PromoteFunc.
type FetchFunc[T any] func(ctx context.Context, item T) error

// PromoteFunc commits a completed batch (validate + bulk-copy-promote).
type PromoteFunc[T any] func(ctx context.Context, batch []T) error

// PresentFunc returns the subset of items NOT yet present in the
// target table, per spec.md §4.C4 step 6.
type PresentFunc[T any] func(ctx context.Context, items []T) ([]T, error)

// Run drives items through fetch -> promote, batch by batch, then
// retries the still-missing subset up to Pacing.MaxRetries times.
func (d *Driver[T]) Run(ctx context.Context, items []T, fetch FetchFunc[T], promote PromoteFunc[T], present PresentFunc[T]) model.RunSummary {
	logger := zerolog.Ctx(ctx)
	summary := model.RunSummary{StartTime: time.Now(), Status: model.RunSuccess}

	work := sample(items, d.Pacing.MaxItems)

	for pass := 0; pass <= d.Pacing.MaxRetries; pass++ {
		if len(work) == 0 {
			break
		}
		if pass > 0 {
			logger.Info().Int("Pass", pass).Int("Remaining", len(work)).Msg("retrying missing items")
		}

		if err := d.runPass(ctx, work, fetch, promote); err != nil {
			logger.Warn().Err(err).Int("Pass", pass).Msg("batch pass completed with errors")
			summary.NumRetries++
		}

		missing, err := present(ctx, work)
		if err != nil {
			logger.Error().Err(err).Msg("could not compute missing-item set")
			break
		}
		work = missing
	}

	if len(work) > 0 {
		summary.Status = model.RunPartial
		for _, item := range work {
			summary.MissingSymbols = append(summary.MissingSymbols, anyToString(item))
		}
		logger.Warn().Int("StillMissing", len(work)).Msg("items missing after all retry passes")
	}

	summary.NumObservations = len(items) - len(work)
	summary.EndTime = time.Now()
	return summary
}

// runPass partitions items into Pacing.BatchSize batches, fetches each
// batch concurrently, promotes it, and paces to the per-batch budget.
func (d *Driver[T]) runPass(ctx context.Context, items []T, fetch FetchFunc[T], promote PromoteFunc[T]) error {
	logger := zerolog.Ctx(ctx)
	batchSize := d.Pacing.BatchSize
	if batchSize <= 0 {
		batchSize = 250
	}

	budget := perBatchBudget(d.Pacing.RPSTarget, batchSize)

	var errs error
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		batchStart := time.Now()
		if err := d.fetchBatch(ctx, batch, fetch); err != nil {
			errs = multierror.Append(errs, err)
		}

		if err := promote(ctx, batch); err != nil {
			errs = multierror.Append(errs, err)
			logger.Error().Err(err).Int("BatchSize", len(batch)).Msg("promote failed")
			continue
		}

		duration := time.Since(batchStart)
		if sleep := d.Pacing.BaseSleep + budget - duration; sleep > 0 {
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return errs
}

// fetchBatch issues every item's fetch concurrently, capturing
// per-item errors without cancelling siblings, per spec.md §5
// ("one failed item does not cancel siblings").
func (d *Driver[T]) fetchBatch(ctx context.Context, batch []T, fetch FetchFunc[T]) error {
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	var mu errSink
	for _, item := range batch {
		item := item
		g.Go(func() error {
			if err := fetch(gctx, item); err != nil {
				mu.add(err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return mu.err
}

// errSink accumulates per-item fetch errors without aborting siblings.
type errSink struct {
	mu  sync.Mutex
	err error
}

func (s *errSink) add(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = multierror.Append(s.err, err)
}

// perBatchBudget is `60 / (rps_target / batch_size)` seconds, per
// spec.md §4.C4 step 5.
func perBatchBudget(rpsTarget float64, batchSize int) time.Duration {
	if rpsTarget <= 0 {
		return 0
	}
	seconds := 60.0 / (rpsTarget / float64(batchSize))
	return time.Duration(seconds * float64(time.Second))
}

// sample shuffles and truncates items to maxItems, per spec.md
// §4.C4 step 1 ("shuffle/sample up to max_symbols"). maxItems <= 0
// disables sampling.
func sample[T any](items []T, maxItems int) []T {
	if maxItems <= 0 || maxItems >= len(items) {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:maxItems]
}

func anyToString(v any) string {
	if stringer, ok := v.(interface{ String() string }); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%v", v)
}
