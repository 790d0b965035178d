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

import "testing"

func TestRatioColumnsMatchRowLength(t *testing.T) {
	r := &Ratio{}
	cols := r.Columns()
	row := r.Row()
	if len(cols) != len(row) {
		t.Fatalf("Columns() has %d entries, Row() has %d", len(cols), len(row))
	}
}

func TestRatioColumnsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range (&Ratio{}).Columns() {
		if seen[c] {
			t.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}
}

func TestRatioMetricNamesHaveColumnMapping(t *testing.T) {
	for _, metric := range RatioMetricNames() {
		column, ok := RatioColumnName[metric]
		if !ok {
			t.Errorf("metric %q has no entry in RatioColumnName", metric)
			continue
		}
		found := false
		for _, c := range (&Ratio{}).Columns() {
			if c == column {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("metric %q maps to column %q, which Columns() does not emit", metric, column)
		}
	}
}

func TestRatioMetricNamesNoDuplicates(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range RatioMetricNames() {
		if seen[m] {
			t.Errorf("duplicate metric name %q", m)
		}
		seen[m] = true
	}
}
