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
package retry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/quantledger/fmpdata/model"
)

func fastPacing() PacingConfig {
	return PacingConfig{BatchSize: 2, RPSTarget: 0, BaseSleep: 0, MaxRetries: 5}
}

func TestDriverRunConvergesToComplete(t *testing.T) {
	items := []string{"AAPL", "MSFT", "GOOG", "AMZN", "META"}

	var mu sync.Mutex
	present := make(map[string]bool)

	fetch := func(ctx context.Context, item string) error {
		mu.Lock()
		defer mu.Unlock()
		present[item] = true
		return nil
	}
	promote := func(ctx context.Context, batch []string) error { return nil }
	presentFn := func(ctx context.Context, batch []string) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		var missing []string
		for _, item := range batch {
			if !present[item] {
				missing = append(missing, item)
			}
		}
		return missing, nil
	}

	d := New[string](fastPacing())
	summary := d.Run(context.Background(), items, fetch, promote, presentFn)

	if summary.Status != model.RunSuccess {
		t.Fatalf("status = %v, want RunSuccess", summary.Status)
	}
	if summary.NumObservations != len(items) {
		t.Fatalf("NumObservations = %d, want %d", summary.NumObservations, len(items))
	}
	if len(summary.MissingSymbols) != 0 {
		t.Fatalf("MissingSymbols = %v, want empty", summary.MissingSymbols)
	}
}

func TestDriverRunReportsPartialWhenNeverPresent(t *testing.T) {
	items := []string{"AAPL", "MSFT"}

	fetch := func(ctx context.Context, item string) error { return nil }
	promote := func(ctx context.Context, batch []string) error { return nil }
	presentFn := func(ctx context.Context, batch []string) ([]string, error) {
		return batch, nil
	}

	d := New[string](fastPacing())
	summary := d.Run(context.Background(), items, fetch, promote, presentFn)

	if summary.Status != model.RunPartial {
		t.Fatalf("status = %v, want RunPartial", summary.Status)
	}
	if summary.NumObservations != 0 {
		t.Fatalf("NumObservations = %d, want 0", summary.NumObservations)
	}
	if len(summary.MissingSymbols) != len(items) {
		t.Fatalf("MissingSymbols = %v, want all %d items", summary.MissingSymbols, len(items))
	}
}

func TestDriverFetchFailureDoesNotCancelSiblings(t *testing.T) {
	items := []string{"A", "B", "C", "D"}

	var mu sync.Mutex
	called := make(map[string]bool)

	fetch := func(ctx context.Context, item string) error {
		mu.Lock()
		called[item] = true
		mu.Unlock()
		if item == "B" {
			return context.DeadlineExceeded
		}
		return nil
	}
	promote := func(ctx context.Context, batch []string) error { return nil }
	presentFn := func(ctx context.Context, batch []string) ([]string, error) {
		mu.Lock()
		defer mu.Unlock()
		var missing []string
		for _, item := range batch {
			if item == "B" {
				missing = append(missing, item)
			}
		}
		return missing, nil
	}

	d := New[string](fastPacing())
	d.Run(context.Background(), items, fetch, promote, presentFn)

	mu.Lock()
	defer mu.Unlock()
	for _, item := range items {
		if !called[item] {
			t.Errorf("item %s was never fetched after a sibling's fetch failed", item)
		}
	}
}

func TestSampleNoCapReturnsAll(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	out := sample(items, 0)
	if len(out) != len(items) {
		t.Fatalf("len = %d, want %d", len(out), len(items))
	}
}

func TestSampleCapTruncates(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	out := sample(items, 3)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	seen := make(map[int]bool)
	for _, v := range out {
		if seen[v] {
			t.Fatalf("duplicate value %d in sample", v)
		}
		seen[v] = true
	}
}

func TestPerBatchBudgetZeroRPSIsUnbudgeted(t *testing.T) {
	if got := perBatchBudget(0, 250); got != 0 {
		t.Fatalf("perBatchBudget(0, 250) = %v, want 0", got)
	}
}

func TestPerBatchBudgetMatchesFormula(t *testing.T) {
	got := perBatchBudget(50, 250)
	want := 60.0 / (50.0 / 250.0)
	if got != time.Duration(want*float64(time.Second)) {
		t.Fatalf("perBatchBudget(50, 250) = %v, want %v", got, time.Duration(want*float64(time.Second)))
	}
}
