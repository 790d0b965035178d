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

// EtlSummary is one row of raw.etl_summary: per-trading-day distinct
// non-zero counters recomputed after every run.
type EtlSummary struct {
	Date    time.Time
	Day     string
	FXCnt   int64
	CloseCnt    int64
	VolCnt      int64
	CloseEURCnt int64
	CloseUSDCnt int64
	VolEURCnt   int64
	VolUSDCnt   int64
	MCapCnt     int64
	MCapEURCnt  int64
	MCapUSDCnt  int64
	CreatedAt   time.Time
}

func (s *EtlSummary) Columns() []string {
	return []string{
		"date", "day", "fx_cnt", "close_cnt", "vol_cnt", "close_eur_cnt",
		"close_usd_cnt", "vol_eur_cnt", "vol_usd_cnt", "mcap_cnt",
		"mcap_eur_cnt", "mcap_usd_cnt", "created_at",
	}
}

func (s *EtlSummary) Row() []any {
	return []any{
		s.Date, s.Day, s.FXCnt, s.CloseCnt, s.VolCnt, s.CloseEURCnt,
		s.CloseUSDCnt, s.VolEURCnt, s.VolUSDCnt, s.MCapCnt,
		s.MCapEURCnt, s.MCapUSDCnt, s.CreatedAt,
	}
}
