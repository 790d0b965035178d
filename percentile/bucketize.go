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

// Package percentile implements the cross-metric quantile bucketizer:
// for every ratio column, nearest-rank thresholds at eleven positions
// define twelve half-open buckets, labeled per spec.md §4.C12.
package percentile

import (
	"fmt"
	"math"
	"sort"

	"github.com/quantledger/fmpdata/model"
)

// Thresholds computes the eleven nearest-rank quantile boundaries for
// a column's non-null values, per spec.md §4.C12 step 2. Input need
// not be pre-sorted; the empty-input case returns all-NaN thresholds.
func Thresholds(values []float64) []float64 {
	if len(values) == 0 {
		out := make([]float64, len(model.QuantilePositions))
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := make([]float64, len(model.QuantilePositions))
	for i, p := range model.QuantilePositions {
		out[i] = nearestRank(sorted, p)
	}
	return out
}

// nearestRank returns the value at rank ceil(p*n) (1-indexed) of a
// sorted slice, per spec.md §4.C12's "nearest-rank" method.
func nearestRank(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := int(math.Ceil(p * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

// Bucket assigns v to one of the twelve half-open buckets defined by
// thresholds (len 11, ascending), per spec.md §4.C12 step 4: ties on
// an exact boundary go to the higher bucket, except the last bucket
// which is closed on both ends ([lo, +inf]).
func Bucket(v float64, thresholds []float64) (label int, bound string) {
	for i, t := range thresholds {
		if v < t {
			return model.BucketLabels[i], boundString(i, thresholds)
		}
	}
	last := len(model.BucketLabels) - 1
	return model.BucketLabels[last], boundString(last, thresholds)
}

// boundString renders the human-readable "label (lo – hi)" string for
// bucket index i (0-based into model.BucketLabels).
func boundString(i int, thresholds []float64) string {
	label := model.DisplayLabel(model.BucketLabels[i])
	lo, hi := "-∞", "+∞"
	if i > 0 {
		lo = fmt.Sprintf("%.2f", thresholds[i-1])
	}
	if i < len(thresholds) {
		hi = fmt.Sprintf("%.2f", thresholds[i])
	}
	return fmt.Sprintf("%s (%s – %s)", label, lo, hi)
}
