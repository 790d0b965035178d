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

// Package prices implements the Price/Volume Ingestion component:
// per-symbol historical loads and daily EOD-bulk refreshes with
// quarter tagging.
package prices

import (
	"context"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/quantledger/fmpdata/fmpapi"
	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
	"github.com/quantledger/fmpdata/validate"
)

const (
	pvStage = "stage.historical_price_volume"
	pvFinal = "raw.historical_price_volume"
)

// eodBulkRow is the CSV shape of the single-date EOD bulk endpoint.
type eodBulkRow struct {
	Symbol string  `csv:"symbol"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// IngestHistorical loads a symbol's full price/volume history,
// deriving year/quarter/last_quarter_date per spec.md §3.
func IngestHistorical(ctx context.Context, client *fmpapi.Client, gw *store.Gateway, symbol, currency string) error {
	body, err := client.PriceHistory(ctx, symbol, "", "")
	if err != nil {
		return fmt.Errorf("prices: history fetch %s: %w", symbol, err)
	}

	points := make([]model.PriceVolume, 0)
	for _, row := range fmpapi.HistoricalRows(body) {
		date, err := time.Parse("2006-01-02", row.Get("date").String())
		if err != nil {
			continue
		}
		close, ok := fmpapi.Close(row)
		if !ok {
			continue
		}
		volume := row.Get("volume").Float()
		if ok, _ := validate.PriceVolume(symbol, date, close, volume); !ok {
			continue
		}
		points = append(points, model.PriceVolume{
			Symbol: symbol, Date: date, Close: close, Volume: volume,
			Currency: currency,
		})
	}

	TagQuarters(points)

	rows := make([][]any, len(points))
	for i := range points {
		rows[i] = points[i].Row()
	}

	_, err = gw.BulkCopy(ctx, pvStage, pvFinal, (&model.PriceVolume{}).Columns(), rows)
	return err
}

// TagQuarters fills in Year, Quarter and LastQuarterDate for a
// symbol's full set of points, per spec.md §3's definition: the
// maximum date in its (year, quarter) bucket that is not the current,
// incomplete quarter.
func TagQuarters(points []model.PriceVolume) {
	now := time.Now().UTC()
	curYear, curQuarter := now.Year(), model.QuarterOf(int(now.Month()))

	maxDateInBucket := map[[2]int]time.Time{}
	for _, p := range points {
		key := [2]int{p.Date.Year(), model.QuarterOf(int(p.Date.Month()))}
		if p.Date.After(maxDateInBucket[key]) {
			maxDateInBucket[key] = p.Date
		}
	}

	for i := range points {
		p := &points[i]
		p.Year = p.Date.Year()
		p.Quarter = model.QuarterOf(int(p.Date.Month()))
		key := [2]int{p.Year, p.Quarter}
		isCurrent := p.Year == curYear && p.Quarter == curQuarter
		p.LastQuarterDate = !isCurrent && p.Date.Equal(maxDateInBucket[key])
	}
}

// IngestDaily computes the run of calendar weekdays between the day
// after the latest stored date and yesterday (or just yesterday, if
// that range is empty), and for each one deletes existing rows and
// inserts the EOD-bulk CSV filtered to symbols already tracked, per
// spec.md §4.C8.
func IngestDaily(ctx context.Context, client *fmpapi.Client, gw *store.Gateway, lastDate time.Time, knownSymbols map[string]string) error {
	logger := zerolog.Ctx(ctx)
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	yesterday = time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)

	targets := weekdaysBetween(lastDate.AddDate(0, 0, 1), yesterday)
	if len(targets) == 0 {
		targets = []time.Time{yesterday}
	}

	cols := (&model.PriceVolume{}).Columns()
	for _, date := range targets {
		body, err := client.EODBulk(ctx, date.Format("2006-01-02"))
		if err != nil {
			logger.Error().Err(err).Time("Date", date).Msg("eod bulk fetch failed")
			continue
		}

		var bulk []eodBulkRow
		if err := gocsv.UnmarshalBytes(body, &bulk); err != nil {
			logger.Error().Err(err).Time("Date", date).Msg("eod bulk CSV parse failed")
			continue
		}

		points := make([]model.PriceVolume, 0, len(bulk))
		for _, r := range bulk {
			currency, known := knownSymbols[r.Symbol]
			if !known {
				continue
			}
			if ok, reason := validate.PriceVolume(r.Symbol, date, r.Close, r.Volume); !ok {
				logger.Warn().Str("Symbol", r.Symbol).Str("Reason", reason).Msg("dropping eod row")
				continue
			}
			points = append(points, model.PriceVolume{
				Symbol: r.Symbol, Date: date, Close: r.Close, Volume: r.Volume,
				Currency: currency, Year: date.Year(), Quarter: model.QuarterOf(int(date.Month())),
			})
		}

		rows := make([][]any, len(points))
		for i := range points {
			rows[i] = points[i].Row()
		}

		if _, err := gw.DeleteThenInsert(ctx, pvFinal, "date = $1", []any{date}, cols, rows); err != nil {
			logger.Error().Err(err).Time("Date", date).Msg("eod bulk promote failed")
		}
	}

	return nil
}

func weekdaysBetween(from, to time.Time) []time.Time {
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, d)
		}
	}
	return out
}
