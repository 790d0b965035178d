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
package fx

import (
	"strings"
	"testing"
)

func TestBuildSQLCoversEveryValueColumn(t *testing.T) {
	for _, target := range []Target{priceVolumeTarget, marketCapTarget, benchmarkTarget} {
		sql := buildSQL(target, "d.date >= $1")
		if !strings.Contains(sql, target.table) {
			t.Errorf("%s: SQL missing target table", target.table)
		}
		for _, vc := range target.valueColumns {
			if !strings.Contains(sql, vc.raw+"_eur") {
				t.Errorf("%s: SQL missing %s_eur", target.table, vc.raw)
			}
			if !strings.Contains(sql, vc.raw+"_usd") {
				t.Errorf("%s: SQL missing %s_usd", target.table, vc.raw)
			}
		}
	}
}

func TestBuildSQLJoinsIdentityPairs(t *testing.T) {
	sql := buildSQL(priceVolumeTarget, "d.date >= $1")
	if !strings.Contains(sql, "'EUR' || d.currency") {
		t.Errorf("SQL does not join against the EUR identity pair: %s", sql)
	}
	if !strings.Contains(sql, "'USD' || d.currency") {
		t.Errorf("SQL does not join against the USD identity pair: %s", sql)
	}
}

func TestBuildSQLZeroDivisorGuard(t *testing.T) {
	sql := buildSQL(marketCapTarget, "d.date >= $1")
	if !strings.Contains(sql, "feur.price > 1e-6") || !strings.Contains(sql, "fusd.price > 1e-6") {
		t.Errorf("SQL does not guard against a near-zero FX rate: %s", sql)
	}
}

func TestBuildSQLDatePredicatePassthrough(t *testing.T) {
	sql := buildSQL(benchmarkTarget, "d.date >= $1 AND d.date < $2")
	if !strings.HasSuffix(strings.TrimSpace(sql), "d.date >= $1 AND d.date < $2") {
		t.Errorf("date predicate was not appended verbatim: %s", sql)
	}
}
