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

import "time"

// WeightScheme selects how daily constituent weights are computed.
type WeightScheme string

const (
	WeightCap   WeightScheme = "cap"
	WeightEqual WeightScheme = "equal"
)

// Currency is the reporting currency an index is priced in.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// IndexRequest is the caller-supplied specification for a custom basket,
// per spec.md §4.C13.
type IndexRequest struct {
	MaxConstituents int       `json:"max_constituents"`
	Currency        Currency  `json:"currency"`
	StartAmount     float64   `json:"start_amount"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`

	Countries  []string `json:"countries,omitempty"`
	Sectors    []string `json:"sectors,omitempty"`
	Industries []string `json:"industries,omitempty"`
	Stocks     []string `json:"stocks,omitempty"`

	// KPIs maps a ratio's canonical field name to the set of acceptable
	// percentile bucket labels (the m_perc integers from model.BucketLabels).
	KPIs map[string][]int `json:"kpis,omitempty"`

	Weight WeightScheme `json:"weight"`
}

// IndexPoint is one (date, index_value) sample of the rebased series.
type IndexPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"index_value"`
}

// ConstituentWeight is one row of the weights ledger.
type ConstituentWeight struct {
	Year        int     `json:"year"`
	Quarter     int     `json:"quarter"`
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"company_name"`
	Country     string  `json:"country"`
	Weight      float64 `json:"weight"`
}

// RiskReturn is the scalar descriptor produced by step 11 of the index
// pipeline.
type RiskReturn struct {
	Return float64 `json:"return"`
	Risk   float64 `json:"risk"`
}

// BenchmarkRiskReturn mirrors RiskReturn but is computed per-currency and
// carries extra gating fields, per SPEC_FULL.md's supplemented feature 2.
type BenchmarkRiskReturn struct {
	ReturnEUR  float64 `json:"return_eur"`
	ReturnUSD  float64 `json:"return_usd"`
	RiskEUR    float64 `json:"risk_eur"`
	RiskUSD    float64 `json:"risk_usd"`
	DataPoints int `json:"data_points"`
}

// IndexResult bundles the three artifacts the index builder returns,
// per spec.md §6's external interface.
type IndexResult struct {
	Series             []IndexPoint        `json:"index_df"`
	ConstituentWeights []ConstituentWeight `json:"constituent_weights"`
	RiskReturn         RiskReturn          `json:"risk_return"`
}
