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
package model

import (
	"strconv"
	"time"
)

// PercentileIdentity is the identity key a percentile row is seeded from:
// the distinct (symbol, date, fiscal_year, period, reported_currency)
// combinations present in the ratios table.
type PercentileIdentity struct {
	Symbol           string
	Date             time.Time
	FiscalYear       int
	Period           string
	ReportedCurrency string
}

// PercentileBucket holds the label/bound pair emitted for one metric on
// one identity row.
type PercentileBucket struct {
	Perc  int    // one of {1,10,20,...,90,99,100}
	Bound string // human readable interval, e.g. "10% (10.00 – 100.00)"
}

// BucketLabels is the ordered set of percentile bucket integer labels,
// per spec.md §4.C12.
var BucketLabels = []int{1, 10, 20, 30, 40, 50, 60, 70, 80, 90, 99, 100}

// QuantilePositions is the set of quantile positions used to derive
// bucket boundaries, in the same order as BucketLabels[:len-1].
var QuantilePositions = []float64{0.01, 0.10, 0.20, 0.30, 0.40, 0.50, 0.60, 0.70, 0.80, 0.90, 0.99}

// DisplayLabel returns the human facing label for a bucket integer, e.g.
// 1 -> "<1%", 100 -> ">99%", else "NN%".
func DisplayLabel(perc int) string {
	switch perc {
	case 1:
		return "<1%"
	case 100:
		return ">99%"
	default:
		return strconv.Itoa(perc) + "%"
	}
}
