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
package prices

import (
	"testing"
	"time"

	"github.com/quantledger/fmpdata/model"
)

// pastQuarterDates returns three dates inside the same calendar
// quarter, one full year ago -- guaranteed not to be the current
// quarter regardless of when this test runs.
func pastQuarterDates() (time.Time, time.Time, time.Time) {
	now := time.Now().UTC().AddDate(-1, 0, 0)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 5), start.AddDate(0, 0, 10)
}

func TestTagQuartersMarksOnlyLatestDateInPastQuarter(t *testing.T) {
	d1, d2, d3 := pastQuarterDates()
	points := []model.PriceVolume{
		{Symbol: "AAA", Date: d1},
		{Symbol: "AAA", Date: d2},
		{Symbol: "AAA", Date: d3},
	}
	TagQuarters(points)

	if points[2].LastQuarterDate != true {
		t.Errorf("latest date in a past quarter should be tagged last_quarter_date")
	}
	if points[0].LastQuarterDate || points[1].LastQuarterDate {
		t.Errorf("only the latest date in the quarter should be tagged")
	}
}

func TestTagQuartersNeverTagsCurrentQuarter(t *testing.T) {
	now := time.Now().UTC()
	points := []model.PriceVolume{
		{Symbol: "AAA", Date: now},
	}
	TagQuarters(points)

	if points[0].LastQuarterDate {
		t.Errorf("the current, still-open quarter must never be tagged last_quarter_date")
	}
}

func TestTagQuartersSetsYearAndQuarter(t *testing.T) {
	d1, _, _ := pastQuarterDates()
	points := []model.PriceVolume{{Symbol: "AAA", Date: d1}}
	TagQuarters(points)

	if points[0].Year != d1.Year() {
		t.Errorf("Year = %d, want %d", points[0].Year, d1.Year())
	}
	if points[0].Quarter != model.QuarterOf(int(d1.Month())) {
		t.Errorf("Quarter = %d, want %d", points[0].Quarter, model.QuarterOf(int(d1.Month())))
	}
}

func TestTagQuartersBucketsAcrossSymbols(t *testing.T) {
	d1, d2, _ := pastQuarterDates()
	points := []model.PriceVolume{
		{Symbol: "AAA", Date: d1},
		{Symbol: "BBB", Date: d2},
	}
	TagQuarters(points)

	// TagQuarters buckets by (year, quarter) only -- not by symbol --
	// so when two symbols' dates share a quarter, only the later date
	// is the bucket's latest and gets tagged.
	if !points[1].LastQuarterDate {
		t.Errorf("later date across symbols sharing a quarter should be tagged")
	}
}
