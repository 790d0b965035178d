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

// Package ratios implements the Financial Ratios Ingestion component:
// per-symbol quarterly ratio history, renamed from the provider's
// field names via model.RatioFieldMapping, 50 periods deep.
package ratios

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/tidwall/gjson"

	"github.com/quantledger/fmpdata/fmpapi"
	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/validate"
)

const periodsDeep = 50

// Fetch retrieves and parses a symbol's ratio history into canonical
// Ratio rows, coercing out-of-range numerics to null per spec.md §3.
func Fetch(ctx context.Context, client *fmpapi.Client, symbol string) ([]model.Ratio, error) {
	body, err := client.RatiosHistory(ctx, symbol, periodsDeep)
	if err != nil {
		return nil, fmt.Errorf("ratios: fetch %s: %w", symbol, err)
	}

	var out []model.Ratio
	for _, item := range gjson.ParseBytes(body).Array() {
		date, err := time.Parse("2006-01-02", item.Get("date").String())
		if err != nil {
			continue
		}
		period := item.Get("period").String()
		if !validate.RatioPeriod(period) {
			continue
		}

		r := model.Ratio{
			Symbol:           symbol,
			Date:             date,
			Period:           period,
			FiscalYear:       int(item.Get("fiscalYear").Int()),
			ReportedCurrency: validate.Currency(item.Get("reportedCurrency").String()),
		}
		applyFields(&r, item)
		out = append(out, r)
	}
	return out, nil
}

// applyFields walks model.RatioFieldMapping and sets each matching
// struct field by reflection, coercing out-of-range magnitudes to nil.
func applyFields(r *model.Ratio, item gjson.Result) {
	v := reflect.ValueOf(r).Elem()
	for sourceField, canonical := range model.RatioFieldMapping {
		raw := item.Get(sourceField)
		if !raw.Exists() {
			continue
		}
		field := v.FieldByName(canonical)
		if !field.IsValid() || field.Type() != reflect.TypeOf((*float64)(nil)) {
			continue
		}
		field.Set(reflect.ValueOf(validate.Coerce(raw.Float(), validate.MaxRatio)))
	}
}
