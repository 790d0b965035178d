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
package fmpapi

import "github.com/tidwall/gjson"

// HistoricalRows normalizes the two shapes the provider returns for
// per-symbol history endpoints: a bare JSON array, or an object with a
// "historical" array wrapper. An unrecognized shape yields an empty
// result rather than an error, per spec.md §7 ("treat unknown as empty").
func HistoricalRows(body []byte) []gjson.Result {
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return root.Array()
	}
	if wrapped := root.Get("historical"); wrapped.Exists() && wrapped.IsArray() {
		return wrapped.Array()
	}
	return nil
}

// Close returns the per-row close price, preferring the adjusted close
// when present the way the provider's full-history endpoint reports it.
func Close(row gjson.Result) (float64, bool) {
	if adj := row.Get("adjClose"); adj.Exists() {
		return adj.Float(), true
	}
	if c := row.Get("close"); c.Exists() {
		return c.Float(), true
	}
	return 0, false
}
