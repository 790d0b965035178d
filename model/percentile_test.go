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

func TestDisplayLabel(t *testing.T) {
	cases := map[int]string{1: "<1%", 100: ">99%", 50: "50%", 10: "10%", 99: "99%"}
	for in, want := range cases {
		if got := DisplayLabel(in); got != want {
			t.Errorf("DisplayLabel(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestBucketLabelsAndQuantilePositionsLineUp(t *testing.T) {
	if len(QuantilePositions) != len(BucketLabels)-1 {
		t.Fatalf("len(QuantilePositions) = %d, want len(BucketLabels)-1 = %d",
			len(QuantilePositions), len(BucketLabels)-1)
	}
	for i := 1; i < len(QuantilePositions); i++ {
		if QuantilePositions[i] <= QuantilePositions[i-1] {
			t.Fatalf("QuantilePositions not strictly increasing at %d", i)
		}
	}
}
