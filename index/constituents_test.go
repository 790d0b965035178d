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
package index

import (
	"math"
	"testing"

	"github.com/quantledger/fmpdata/model"
)

func TestConstituentWeightsCapSumToOnePerQuarter(t *testing.T) {
	rows := twoSymbolRows()
	weights := constituentWeights(rows, model.CurrencyEUR, model.WeightCap, nil, nil)

	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", total)
	}
}

func TestConstituentWeightsEqualSumToOne(t *testing.T) {
	rows := twoSymbolRows()
	weights := constituentWeights(rows, model.CurrencyEUR, model.WeightEqual, nil, nil)

	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", total)
	}
}

func TestConstituentWeightsFallsBackToSymbolForMissingName(t *testing.T) {
	rows := twoSymbolRows()
	weights := constituentWeights(rows, model.CurrencyEUR, model.WeightCap, map[string]string{}, nil)
	for _, w := range weights {
		if w.CompanyName != w.Symbol {
			t.Errorf("CompanyName = %q, want fallback to symbol %q", w.CompanyName, w.Symbol)
		}
	}
}

func TestConstituentWeightsSortedDescending(t *testing.T) {
	rows := twoSymbolRows()
	weights := constituentWeights(rows, model.CurrencyEUR, model.WeightCap, nil, nil)
	for i := 1; i < len(weights); i++ {
		a, b := weights[i-1], weights[i]
		if a.Year < b.Year {
			t.Fatalf("not sorted by year descending at %d", i)
		}
		if a.Year == b.Year && a.Quarter < b.Quarter {
			t.Fatalf("not sorted by quarter descending at %d", i)
		}
	}
}
