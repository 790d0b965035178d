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

// Ratio is one quarterly financial-ratio observation for a symbol.
// Numeric fields use *float64 so that an out-of-range value (per
// validate.Coerce) can be coerced to a genuine SQL NULL rather than
// a misleading zero.
type Ratio struct {
	Symbol           string
	Date             time.Time
	Period           string // Q1, Q2, Q3, Q4, FY
	FiscalYear       int
	ReportedCurrency string

	// Profitability ratios
	GrossProfitMargin                *float64
	EBITMargin                       *float64
	EBITDAMargin                     *float64
	OperatingProfitMargin            *float64
	PretaxProfitMargin               *float64
	ContinuousOperationsProfitMargin *float64
	NetProfitMargin                  *float64
	BottomLineProfitMargin           *float64

	// Liquidity ratios
	CurrentRatio  *float64
	QuickRatio    *float64
	SolvencyRatio *float64
	CashRatio     *float64

	// Efficiency ratios
	ReceivablesTurnover         *float64
	PayablesTurnover            *float64
	InventoryTurnover           *float64
	FixedAssetTurnover          *float64
	AssetTurnover               *float64
	WorkingCapitalTurnoverRatio *float64

	// Valuation ratios
	PriceToEarningsRatio              *float64
	PriceToEarningsGrowthRatio        *float64
	ForwardPriceToEarningsGrowthRatio *float64
	PriceToBookRatio                  *float64
	PriceToSalesRatio                 *float64
	PriceToFreeCashFlowRatio          *float64
	PriceToOperatingCashFlowRatio     *float64
	PriceToFairValue                  *float64

	// Leverage ratios
	DebtToAssetsRatio           *float64
	DebtToEquityRatio           *float64
	DebtToCapitalRatio          *float64
	LongTermDebtToCapitalRatio  *float64
	FinancialLeverageRatio      *float64
	DebtToMarketCap             *float64

	// Cash flow ratios
	OperatingCashFlowRatio                  *float64
	OperatingCashFlowSalesRatio             *float64
	FreeCashFlowOperatingCashFlowRatio      *float64
	DebtServiceCoverageRatio                *float64
	InterestCoverageRatio                   *float64
	ShortTermOperatingCashFlowCoverageRatio *float64
	OperatingCashFlowCoverageRatio          *float64
	CapitalExpenditureCoverageRatio         *float64
	DividendPaidAndCapexCoverageRatio       *float64

	// Dividend ratios
	DividendPayoutRatio     *float64
	DividendYield           *float64
	DividendYieldPercentage *float64
	DividendPerShare        *float64

	// Per share metrics
	RevenuePerShare            *float64
	NetIncomePerShare          *float64
	InterestDebtPerShare       *float64
	CashPerShare               *float64
	BookValuePerShare          *float64
	TangibleBookValuePerShare  *float64
	ShareholdersEquityPerShare *float64
	OperatingCashFlowPerShare  *float64
	CapexPerShare              *float64
	FreeCashFlowPerShare       *float64

	// Additional ratios
	NetIncomePerEBT          *float64
	EBTPerEBIT               *float64
	EffectiveTaxRate         *float64
	EnterpriseValueMultiple  *float64
}

// Columns lists the raw.financial_metrics columns in the order Row()
// emits them.
func (r *Ratio) Columns() []string {
	return []string{
		"symbol", "date", "period", "fiscal_year", "reported_currency",

		"gross_profit_margin", "ebit_margin", "ebitda_margin",
		"operating_profit_margin", "pretax_profit_margin",
		"continuous_operations_profit_margin", "net_profit_margin",
		"bottom_line_profit_margin",

		"current_ratio", "quick_ratio", "solvency_ratio", "cash_ratio",

		"receivables_turnover", "payables_turnover", "inventory_turnover",
		"fixed_asset_turnover", "asset_turnover", "working_capital_turnover_ratio",

		"price_to_earnings_ratio", "price_to_earnings_growth_ratio",
		"forward_price_to_earnings_growth_ratio", "price_to_book_ratio",
		"price_to_sales_ratio", "price_to_free_cash_flow_ratio",
		"price_to_operating_cash_flow_ratio", "price_to_fair_value",

		"debt_to_assets_ratio", "debt_to_equity_ratio", "debt_to_capital_ratio",
		"long_term_debt_to_capital_ratio", "financial_leverage_ratio",
		"debt_to_market_cap",

		"operating_cash_flow_ratio", "operating_cash_flow_sales_ratio",
		"free_cash_flow_operating_cash_flow_ratio", "debt_service_coverage_ratio",
		"interest_coverage_ratio", "short_term_operating_cash_flow_coverage_ratio",
		"operating_cash_flow_coverage_ratio", "capital_expenditure_coverage_ratio",
		"dividend_paid_and_capex_coverage_ratio",

		"dividend_payout_ratio", "dividend_yield", "dividend_yield_percentage",
		"dividend_per_share",

		"revenue_per_share", "net_income_per_share", "interest_debt_per_share",
		"cash_per_share", "book_value_per_share", "tangible_book_value_per_share",
		"shareholders_equity_per_share", "operating_cash_flow_per_share",
		"capex_per_share", "free_cash_flow_per_share",

		"net_income_per_ebt", "ebt_per_ebit", "effective_tax_rate",
		"enterprise_value_multiple",
	}
}

// Row emits field values in the same order as Columns().
func (r *Ratio) Row() []any {
	return []any{
		r.Symbol, r.Date, r.Period, r.FiscalYear, r.ReportedCurrency,

		r.GrossProfitMargin, r.EBITMargin, r.EBITDAMargin,
		r.OperatingProfitMargin, r.PretaxProfitMargin,
		r.ContinuousOperationsProfitMargin, r.NetProfitMargin,
		r.BottomLineProfitMargin,

		r.CurrentRatio, r.QuickRatio, r.SolvencyRatio, r.CashRatio,

		r.ReceivablesTurnover, r.PayablesTurnover, r.InventoryTurnover,
		r.FixedAssetTurnover, r.AssetTurnover, r.WorkingCapitalTurnoverRatio,

		r.PriceToEarningsRatio, r.PriceToEarningsGrowthRatio,
		r.ForwardPriceToEarningsGrowthRatio, r.PriceToBookRatio,
		r.PriceToSalesRatio, r.PriceToFreeCashFlowRatio,
		r.PriceToOperatingCashFlowRatio, r.PriceToFairValue,

		r.DebtToAssetsRatio, r.DebtToEquityRatio, r.DebtToCapitalRatio,
		r.LongTermDebtToCapitalRatio, r.FinancialLeverageRatio,
		r.DebtToMarketCap,

		r.OperatingCashFlowRatio, r.OperatingCashFlowSalesRatio,
		r.FreeCashFlowOperatingCashFlowRatio, r.DebtServiceCoverageRatio,
		r.InterestCoverageRatio, r.ShortTermOperatingCashFlowCoverageRatio,
		r.OperatingCashFlowCoverageRatio, r.CapitalExpenditureCoverageRatio,
		r.DividendPaidAndCapexCoverageRatio,

		r.DividendPayoutRatio, r.DividendYield, r.DividendYieldPercentage,
		r.DividendPerShare,

		r.RevenuePerShare, r.NetIncomePerShare, r.InterestDebtPerShare,
		r.CashPerShare, r.BookValuePerShare, r.TangibleBookValuePerShare,
		r.ShareholdersEquityPerShare, r.OperatingCashFlowPerShare,
		r.CapexPerShare, r.FreeCashFlowPerShare,

		r.NetIncomePerEBT, r.EBTPerEBIT, r.EffectiveTaxRate,
		r.EnterpriseValueMultiple,
	}
}

// RatioColumnName maps each canonical struct-field name (the values of
// RatioFieldMapping) onto its exact raw.financial_metrics column name,
// as declared in Columns(). Kept as an explicit table rather than
// derived by case-folding the field name, since acronym-heavy fields
// like EBITMargin and EBTPerEBIT don't round-trip through a generic
// camel-to-snake conversion.
var RatioColumnName = map[string]string{
	"GrossProfitMargin":                "gross_profit_margin",
	"EBITMargin":                       "ebit_margin",
	"EBITDAMargin":                     "ebitda_margin",
	"OperatingProfitMargin":            "operating_profit_margin",
	"PretaxProfitMargin":               "pretax_profit_margin",
	"ContinuousOperationsProfitMargin": "continuous_operations_profit_margin",
	"NetProfitMargin":                  "net_profit_margin",
	"BottomLineProfitMargin":           "bottom_line_profit_margin",

	"CurrentRatio":  "current_ratio",
	"QuickRatio":    "quick_ratio",
	"SolvencyRatio": "solvency_ratio",
	"CashRatio":     "cash_ratio",

	"ReceivablesTurnover":         "receivables_turnover",
	"PayablesTurnover":            "payables_turnover",
	"InventoryTurnover":           "inventory_turnover",
	"FixedAssetTurnover":          "fixed_asset_turnover",
	"AssetTurnover":               "asset_turnover",
	"WorkingCapitalTurnoverRatio": "working_capital_turnover_ratio",

	"PriceToEarningsRatio":              "price_to_earnings_ratio",
	"PriceToEarningsGrowthRatio":        "price_to_earnings_growth_ratio",
	"ForwardPriceToEarningsGrowthRatio": "forward_price_to_earnings_growth_ratio",
	"PriceToBookRatio":                  "price_to_book_ratio",
	"PriceToSalesRatio":                 "price_to_sales_ratio",
	"PriceToFreeCashFlowRatio":          "price_to_free_cash_flow_ratio",
	"PriceToOperatingCashFlowRatio":     "price_to_operating_cash_flow_ratio",
	"PriceToFairValue":                  "price_to_fair_value",

	"DebtToAssetsRatio":          "debt_to_assets_ratio",
	"DebtToEquityRatio":          "debt_to_equity_ratio",
	"DebtToCapitalRatio":         "debt_to_capital_ratio",
	"LongTermDebtToCapitalRatio": "long_term_debt_to_capital_ratio",
	"FinancialLeverageRatio":     "financial_leverage_ratio",
	"DebtToMarketCap":            "debt_to_market_cap",

	"OperatingCashFlowRatio":                  "operating_cash_flow_ratio",
	"OperatingCashFlowSalesRatio":             "operating_cash_flow_sales_ratio",
	"FreeCashFlowOperatingCashFlowRatio":      "free_cash_flow_operating_cash_flow_ratio",
	"DebtServiceCoverageRatio":                "debt_service_coverage_ratio",
	"InterestCoverageRatio":                   "interest_coverage_ratio",
	"ShortTermOperatingCashFlowCoverageRatio": "short_term_operating_cash_flow_coverage_ratio",
	"OperatingCashFlowCoverageRatio":           "operating_cash_flow_coverage_ratio",
	"CapitalExpenditureCoverageRatio":          "capital_expenditure_coverage_ratio",
	"DividendPaidAndCapexCoverageRatio":        "dividend_paid_and_capex_coverage_ratio",

	"DividendPayoutRatio":     "dividend_payout_ratio",
	"DividendYield":           "dividend_yield",
	"DividendYieldPercentage": "dividend_yield_percentage",
	"DividendPerShare":        "dividend_per_share",

	"RevenuePerShare":            "revenue_per_share",
	"NetIncomePerShare":          "net_income_per_share",
	"InterestDebtPerShare":       "interest_debt_per_share",
	"CashPerShare":               "cash_per_share",
	"BookValuePerShare":          "book_value_per_share",
	"TangibleBookValuePerShare":  "tangible_book_value_per_share",
	"ShareholdersEquityPerShare": "shareholders_equity_per_share",
	"OperatingCashFlowPerShare":  "operating_cash_flow_per_share",
	"CapexPerShare":              "capex_per_share",
	"FreeCashFlowPerShare":       "free_cash_flow_per_share",

	"NetIncomePerEBT":         "net_income_per_ebt",
	"EBTPerEBIT":              "ebt_per_ebit",
	"EffectiveTaxRate":        "effective_tax_rate",
	"EnterpriseValueMultiple": "enterprise_value_multiple",
}

// RatioFieldMapping maps the provider's source field names onto the
// canonical struct-field names above, mirroring the financial ratios
// endpoint's field_mapping dict one-for-one.
var RatioFieldMapping = map[string]string{
	"grossProfitMargin":                 "GrossProfitMargin",
	"ebitMargin":                        "EBITMargin",
	"ebitdaMargin":                      "EBITDAMargin",
	"operatingProfitMargin":             "OperatingProfitMargin",
	"pretaxProfitMargin":                "PretaxProfitMargin",
	"continuousOperationsProfitMargin":  "ContinuousOperationsProfitMargin",
	"netProfitMargin":                   "NetProfitMargin",
	"bottomLineProfitMargin":            "BottomLineProfitMargin",

	"currentRatio":  "CurrentRatio",
	"quickRatio":    "QuickRatio",
	"solvencyRatio": "SolvencyRatio",
	"cashRatio":     "CashRatio",

	"receivablesTurnover":         "ReceivablesTurnover",
	"payablesTurnover":            "PayablesTurnover",
	"inventoryTurnover":           "InventoryTurnover",
	"fixedAssetTurnover":          "FixedAssetTurnover",
	"assetTurnover":               "AssetTurnover",
	"workingCapitalTurnoverRatio": "WorkingCapitalTurnoverRatio",

	"priceToEarningsRatio":              "PriceToEarningsRatio",
	"priceToEarningsGrowthRatio":        "PriceToEarningsGrowthRatio",
	"forwardPriceToEarningsGrowthRatio": "ForwardPriceToEarningsGrowthRatio",
	"priceToBookRatio":                  "PriceToBookRatio",
	"priceToSalesRatio":                 "PriceToSalesRatio",
	"priceToFreeCashFlowRatio":          "PriceToFreeCashFlowRatio",
	"priceToOperatingCashFlowRatio":     "PriceToOperatingCashFlowRatio",
	"priceToFairValue":                  "PriceToFairValue",

	"debtToAssetsRatio":          "DebtToAssetsRatio",
	"debtToEquityRatio":          "DebtToEquityRatio",
	"debtToCapitalRatio":         "DebtToCapitalRatio",
	"longTermDebtToCapitalRatio": "LongTermDebtToCapitalRatio",
	"financialLeverageRatio":     "FinancialLeverageRatio",
	"debtToMarketCap":            "DebtToMarketCap",

	"operatingCashFlowRatio":                  "OperatingCashFlowRatio",
	"operatingCashFlowSalesRatio":             "OperatingCashFlowSalesRatio",
	"freeCashFlowOperatingCashFlowRatio":      "FreeCashFlowOperatingCashFlowRatio",
	"debtServiceCoverageRatio":                "DebtServiceCoverageRatio",
	"interestCoverageRatio":                   "InterestCoverageRatio",
	"shortTermOperatingCashFlowCoverageRatio": "ShortTermOperatingCashFlowCoverageRatio",
	"operatingCashFlowCoverageRatio":           "OperatingCashFlowCoverageRatio",
	"capitalExpenditureCoverageRatio":          "CapitalExpenditureCoverageRatio",
	"dividendPaidAndCapexCoverageRatio":        "DividendPaidAndCapexCoverageRatio",

	"dividendPayoutRatio":     "DividendPayoutRatio",
	"dividendYield":           "DividendYield",
	"dividendYieldPercentage": "DividendYieldPercentage",
	"dividendPerShare":        "DividendPerShare",

	"revenuePerShare":            "RevenuePerShare",
	"netIncomePerShare":          "NetIncomePerShare",
	"interestDebtPerShare":       "InterestDebtPerShare",
	"cashPerShare":               "CashPerShare",
	"bookValuePerShare":          "BookValuePerShare",
	"tangibleBookValuePerShare":  "TangibleBookValuePerShare",
	"shareholdersEquityPerShare": "ShareholdersEquityPerShare",
	"operatingCashFlowPerShare":  "OperatingCashFlowPerShare",
	"capexPerShare":              "CapexPerShare",
	"freeCashFlowPerShare":       "FreeCashFlowPerShare",

	"netIncomePerEBT":          "NetIncomePerEBT",
	"ebtPerEbit":               "EBTPerEBIT",
	"effectiveTaxRate":         "EffectiveTaxRate",
	"enterpriseValueMultiple":  "EnterpriseValueMultiple",
}

// RatioMetricNames returns the canonical struct-field names that are
// fed through the percentile bucketizer -- every mapped metric.
func RatioMetricNames() []string {
	names := make([]string, 0, len(RatioFieldMapping))
	seen := make(map[string]bool, len(RatioFieldMapping))
	for _, canonical := range RatioFieldMapping {
		if !seen[canonical] {
			seen[canonical] = true
			names = append(names, canonical)
		}
	}
	return names
}
