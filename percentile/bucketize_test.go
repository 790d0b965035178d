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
package percentile

import (
	"math"
	"testing"

	"github.com/quantledger/fmpdata/model"
)

func TestThresholdsEmpty(t *testing.T) {
	thresholds := Thresholds(nil)
	if len(thresholds) != len(model.QuantilePositions) {
		t.Fatalf("got %d thresholds, want %d", len(thresholds), len(model.QuantilePositions))
	}
	for i, v := range thresholds {
		if !math.IsNaN(v) {
			t.Errorf("thresholds[%d] = %v, want NaN", i, v)
		}
	}
}

func TestThresholdsMonotonic(t *testing.T) {
	values := make([]float64, 0, 1000)
	for i := 0; i < 1000; i++ {
		values = append(values, float64(1000-i))
	}
	thresholds := Thresholds(values)
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] < thresholds[i-1] {
			t.Fatalf("thresholds not monotonic at %d: %v < %v", i, thresholds[i], thresholds[i-1])
		}
	}
}

func TestThresholdsUnsortedInputUnaffected(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	unsorted := []float64{7, 3, 9, 1, 5, 10, 2, 8, 4, 6}

	got := Thresholds(unsorted)
	want := Thresholds(sorted)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("threshold %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBucketCoversEveryLabel(t *testing.T) {
	values := make([]float64, 0, 1000)
	for i := 1; i <= 1000; i++ {
		values = append(values, float64(i))
	}
	thresholds := Thresholds(values)

	seen := make(map[int]bool)
	for _, v := range values {
		label, bound := Bucket(v, thresholds)
		if bound == "" {
			t.Errorf("value %v got empty bound", v)
		}
		seen[label] = true
	}

	for _, label := range model.BucketLabels {
		if !seen[label] {
			t.Errorf("bucket label %d never assigned across full value range", label)
		}
	}
}

func TestBucketLastBucketClosedBothEnds(t *testing.T) {
	thresholds := Thresholds([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	last := model.BucketLabels[len(model.BucketLabels)-1]

	label, _ := Bucket(math.Inf(1), thresholds)
	if label != last {
		t.Errorf("+Inf got bucket %d, want last bucket %d", label, last)
	}

	maxThreshold := thresholds[len(thresholds)-1]
	label, _ = Bucket(maxThreshold, thresholds)
	if label != last {
		t.Errorf("value at max threshold got bucket %d, want last bucket %d (ties go to the higher bucket)", label, last)
	}
}

func TestBucketTiesGoToHigherBucket(t *testing.T) {
	thresholds := []float64{10, 20, 30}
	label, _ := Bucket(10, thresholds)
	if label != model.BucketLabels[1] {
		t.Errorf("value exactly at threshold got bucket %d, want %d", label, model.BucketLabels[1])
	}
}
