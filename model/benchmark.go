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

// Benchmark is an index/ETF EOD observation, treated like PriceVolume for
// FX purposes but carrying no volume.
type Benchmark struct {
	Symbol   string
	Date     time.Time
	Close    float64
	CloseEUR float64
	CloseUSD float64
}

func (b *Benchmark) Columns() []string {
	return []string{"symbol", "date", "close", "close_eur", "close_usd"}
}

func (b *Benchmark) Row() []any {
	return []any{b.Symbol, b.Date, b.Close, b.CloseEUR, b.CloseUSD}
}
