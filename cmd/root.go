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
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fmpdata",
	Short: "fmpdata builds and maintains a canonicalized market-data warehouse",
	Long: `fmpdata is a command line utility for pulling symbol, price, market-cap,
forex and financial-ratio data from a single provider and landing it in Postgres
under raw/clean schemas with EUR/USD canonicalized columns.

Ingestion is strictly ordered: symbols, then profiles, then forex and its
EUR/USD-complete normalization, then trading-volume averages and relevance
flags, then prices, then market cap, then quarterly ratios, then cross-metric
percentile buckets, then the ETL summary counters.

Once the warehouse is populated, the index subcommand builds custom baskets
on demand from whatever has already been ingested.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
