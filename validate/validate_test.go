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
package validate

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/quantledger/fmpdata/model"
)

func TestSymbolRequiresTicker(t *testing.T) {
	if _, ok, reason := Symbol(model.Symbol{Ticker: "  "}); ok {
		t.Fatalf("blank ticker accepted, reason=%q", reason)
	}
}

func TestSymbolTrimsAndUppercasesExchange(t *testing.T) {
	clean, ok, reason := Symbol(model.Symbol{Ticker: " aapl ", Exchange: " nasdaq "})
	if !ok {
		t.Fatalf("valid symbol rejected: %s", reason)
	}
	if clean.Ticker != "aapl" {
		t.Errorf("Ticker = %q, want trimmed %q", clean.Ticker, "aapl")
	}
	if clean.Exchange != "NASDAQ" {
		t.Errorf("Exchange = %q, want %q", clean.Exchange, "NASDAQ")
	}
}

func TestSymbolTruncatesOverlongName(t *testing.T) {
	name := strings.Repeat("x", maxNameLen+50)
	clean, ok, _ := Symbol(model.Symbol{Ticker: "T", Name: name})
	if !ok {
		t.Fatal("valid symbol rejected")
	}
	if len(clean.Name) != maxNameLen {
		t.Errorf("len(Name) = %d, want %d", len(clean.Name), maxNameLen)
	}
}

func TestCurrencyRemap(t *testing.T) {
	cases := map[string]string{
		"ila": "ILS",
		"KWF": "KWD",
		" zac ": "ZAR",
		"usd":  "USD",
		"":     "",
	}
	for in, want := range cases {
		if got := Currency(in); got != want {
			t.Errorf("Currency(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInRangeRejectsOverflowAndNearZeroAndNonFinite(t *testing.T) {
	cases := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"zero", 0, true},
		{"typical", 42.5, true},
		{"at limit", MaxClose, false},
		{"over limit", MaxClose * 2, false},
		{"near-zero placeholder", 1e-12, false},
		{"NaN", math.NaN(), false},
		{"+Inf", math.Inf(1), false},
		{"-Inf", math.Inf(-1), false},
	}
	for _, c := range cases {
		if got := InRange(c.v, MaxClose); got != c.ok {
			t.Errorf("InRange(%s) = %v, want %v", c.name, got, c.ok)
		}
	}
}

func TestCoerceReturnsNilOutOfRange(t *testing.T) {
	if got := Coerce(MaxRatio*2, MaxRatio); got != nil {
		t.Errorf("Coerce overflow = %v, want nil", *got)
	}
	got := Coerce(3.14, MaxRatio)
	if got == nil || *got != 3.14 {
		t.Errorf("Coerce(3.14) = %v, want pointer to 3.14", got)
	}
}

func TestNonNegative(t *testing.T) {
	if !NonNegative(0) {
		t.Error("0 should be non-negative")
	}
	if NonNegative(-0.01) {
		t.Error("-0.01 should not be non-negative")
	}
	if NonNegative(math.NaN()) {
		t.Error("NaN should not be non-negative")
	}
}

func TestPriceVolumeRejectsMissingFields(t *testing.T) {
	if ok, _ := PriceVolume("", time.Now(), 1, 1); ok {
		t.Error("missing symbol accepted")
	}
	if ok, _ := PriceVolume("AAPL", time.Time{}, 1, 1); ok {
		t.Error("missing date accepted")
	}
	if ok, _ := PriceVolume("AAPL", time.Now(), -1, 1); ok {
		t.Error("negative close accepted")
	}
	if ok, _ := PriceVolume("AAPL", time.Now(), 1, -1); ok {
		t.Error("negative volume accepted")
	}
	if ok, reason := PriceVolume("AAPL", time.Now(), 100, 1000); !ok {
		t.Errorf("valid row rejected: %s", reason)
	}
}

func TestMarketCapBounds(t *testing.T) {
	if ok, _ := MarketCap("AAPL", time.Now(), -1); ok {
		t.Error("negative market cap accepted")
	}
	if ok, _ := MarketCap("AAPL", time.Now(), MaxMarketCap*10); ok {
		t.Error("overflow market cap accepted")
	}
	if ok, reason := MarketCap("AAPL", time.Now(), 2.5e12); !ok {
		t.Errorf("valid market cap rejected: %s", reason)
	}
}

func TestRatioPeriod(t *testing.T) {
	for _, p := range []string{"Q1", "Q2", "Q3", "Q4", "FY"} {
		if !RatioPeriod(p) {
			t.Errorf("RatioPeriod(%q) = false, want true", p)
		}
	}
	for _, p := range []string{"", "Q5", "annual", "q1"} {
		if RatioPeriod(p) {
			t.Errorf("RatioPeriod(%q) = true, want false", p)
		}
	}
}
