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
	"sort"

	"github.com/quantledger/fmpdata/model"
)

type quarterKey struct {
	year    int
	quarter int
}

// constituentWeights implements spec.md §4.C13 step 10: per (year,
// quarter), the per-symbol max market cap divided by that quarter's
// total, attaching company name and country, keeping only weight > 0,
// sorted (year desc, quarter desc, weight desc).
func constituentWeights(rows []snapshotRow, currency model.Currency, weight model.WeightScheme, companyName, country map[string]string) []model.ConstituentWeight {
	maxMcap := map[quarterKey]map[string]float64{}
	symbolsByQuarter := map[quarterKey]map[string]bool{}
	for _, r := range rows {
		key := quarterKey{r.Year, r.Quarter}
		if maxMcap[key] == nil {
			maxMcap[key] = map[string]float64{}
			symbolsByQuarter[key] = map[string]bool{}
		}
		symbolsByQuarter[key][r.Symbol] = true
		v := marketCapOf(r, currency)
		if v > maxMcap[key][r.Symbol] {
			maxMcap[key][r.Symbol] = v
		}
	}

	var out []model.ConstituentWeight
	for key, symbols := range symbolsByQuarter {
		var w map[string]float64
		switch weight {
		case model.WeightEqual:
			count := float64(len(symbols))
			w = map[string]float64{}
			for s := range symbols {
				w[s] = 1.0 / count
			}
		default: // cap
			var total float64
			for s := range symbols {
				total += maxMcap[key][s]
			}
			w = map[string]float64{}
			if total > 0 {
				for s := range symbols {
					w[s] = maxMcap[key][s] / total
				}
			}
		}

		for s := range symbols {
			if w[s] <= 0 {
				continue
			}
			name := companyName[s]
			if name == "" {
				name = s
			}
			out = append(out, model.ConstituentWeight{
				Year:        key.year,
				Quarter:     key.quarter,
				Symbol:      s,
				CompanyName: name,
				Country:     country[s],
				Weight:      w[s],
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].Quarter != out[j].Quarter {
			return out[i].Quarter > out[j].Quarter
		}
		return out[i].Weight > out[j].Weight
	})
	return out
}
