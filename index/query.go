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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/quantledger/fmpdata/model"
)

// snapshotRow is one row of the prep8-equivalent join: a day's price for
// a symbol that was in the index's composition the quarter before.
type snapshotRow struct {
	Date            time.Time
	Symbol          string
	Currency        string
	Year            int
	Quarter         int
	LastQuarterDate bool
	Close           float64
	CloseEUR        float64
	CloseUSD        float64
	MarketCap       float64
	MarketCapEUR    float64
	MarketCapUSD    float64
	McapRank        int
}

// defaultKPIs mirrors the permissive default spec.md §4.C13 step 1
// calls for when the caller supplies none: every bucket of one metric.
func defaultKPIs() map[string][]int {
	return map[string][]int{"AssetTurnover": append([]int(nil), model.BucketLabels...)}
}

// buildSnapshotSQL assembles the constituent-filter -> ratio-filter ->
// market-cap-snapshot -> rank-and-cap -> price-join chain (spec.md
// §4.C13 steps 1-5) as one parameterized statement. Every caller value
// is bound as a query argument except KPI column names, which are
// validated against model.RatioColumnName before being interpolated so
// only a known percentile column can ever appear in the SQL text.
func buildSnapshotSQL(req model.IndexRequest) (string, []any, error) {
	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var constituentCond []string
	if len(req.Countries) > 0 {
		constituentCond = append(constituentCond, "country = ANY("+bind(req.Countries)+")")
	}
	if len(req.Sectors) > 0 {
		constituentCond = append(constituentCond, "sector = ANY("+bind(req.Sectors)+")")
	}
	if len(req.Industries) > 0 {
		constituentCond = append(constituentCond, "industry = ANY("+bind(req.Industries)+")")
	}
	prep1Where := ""
	if len(constituentCond) > 0 {
		prep1Where = "AND " + strings.Join(constituentCond, " AND ")
	}

	kpis := req.KPIs
	if len(kpis) == 0 {
		kpis = defaultKPIs()
	}
	kpiFields := make([]string, 0, len(kpis))
	for field := range kpis {
		kpiFields = append(kpiFields, field)
	}
	sort.Strings(kpiFields)

	var kpiFilters []string
	for _, field := range kpiFields {
		buckets := kpis[field]
		if len(buckets) == 0 {
			continue
		}
		column, ok := model.RatioColumnName[field]
		if !ok {
			return "", nil, fmt.Errorf("index: unknown KPI field %q", field)
		}
		kpiFilters = append(kpiFilters, fmt.Sprintf("%s_perc = ANY(%s)", column, bind(buckets)))
	}
	prep2Where := ""
	if len(kpiFilters) > 0 {
		prep2Where = "AND " + strings.Join(kpiFilters, " AND ")
	}

	stocksClause := ""
	if len(req.Stocks) > 0 {
		placeholder := bind(req.Stocks)
		if prep1Where != "" || prep2Where != "" {
			stocksClause = "OR symbol = ANY(" + placeholder + ")"
		} else {
			stocksClause = "AND symbol = ANY(" + placeholder + ")"
		}
	}

	rankBypass := ""
	if len(req.Stocks) > 0 {
		rankBypass = "OR p5.symbol = ANY(" + bind(req.Stocks) + ")"
	}

	sql := fmt.Sprintf(`
WITH prep1 AS (
	SELECT ticker AS symbol
	FROM raw.stock_info
	WHERE 1=1 %s
),
prep2 AS (
	SELECT symbol, date, fiscal_year, period, reported_currency
	FROM clean.financial_metrics_perc
	WHERE 1=1 %s %s
),
prep3 AS (
	SELECT p2.*
	FROM prep2 p2
	JOIN prep1 p1 ON p2.symbol = p1.symbol
),
prep4 AS (
	SELECT
		hmc.symbol, hmc.date, hmc.currency, hmc.market_cap,
		hmc.market_cap_eur, hmc.market_cap_usd,
		hmc.year, hmc.quarter, hmc.last_quarter_date,
		CASE WHEN hmc.quarter = 4 THEN 1 ELSE hmc.quarter + 1 END AS next_quarter,
		CASE WHEN hmc.quarter = 4 THEN hmc.year + 1 ELSE hmc.year END AS next_year
	FROM raw.historical_market_cap hmc
	JOIN prep3 p3
		ON p3.symbol = hmc.symbol
		AND p3.fiscal_year = hmc.year
		AND p3.period = 'Q' || hmc.quarter
	WHERE hmc.last_quarter_date = true
),
prep5 AS (
	SELECT p4.*, RANK() OVER (PARTITION BY p4.year, p4.quarter ORDER BY p4.market_cap_eur DESC) AS mcap_rank
	FROM prep4 p4
),
prep6 AS (
	SELECT * FROM prep5 p5 WHERE mcap_rank <= %s %s
)
SELECT
	pv.date, pv.symbol, pv.currency, pv.year, pv.quarter, pv.last_quarter_date,
	pv.close, pv.close_eur, pv.close_usd,
	p6.market_cap, p6.market_cap_eur, p6.market_cap_usd, p6.mcap_rank
FROM raw.historical_price_volume pv
JOIN prep6 p6 ON pv.symbol = p6.symbol AND pv.year = p6.next_year AND pv.quarter = p6.next_quarter
WHERE pv.volume_eur > 100000`,
		prep1Where, prep2Where, stocksClause, bind(req.MaxConstituents), rankBypass)

	return sql, args, nil
}
