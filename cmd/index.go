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
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/quantledger/fmpdata/index"
	"github.com/quantledger/fmpdata/model"
)

var (
	indexRequestFile string
	indexBenchmark   string
	indexStart       string
	indexEnd         string
)

// indexCmd builds a custom basket (or, with --benchmark, a benchmark
// risk/return descriptor) from whatever has already been ingested, and
// prints the JSON result to stdout.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build a custom index basket or benchmark risk/return descriptor",
	Long: `index reads a JSON index request (see model.IndexRequest) from
--request and prints {index_df, constituent_weights, risk_return} as JSON.
With --benchmark, it instead computes the benchmark risk/return descriptor
for that single raw.benchmarks symbol over [--start, --end].`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env := openPipeline(ctx)
		defer env.Close()

		builder := index.New(env.pool)

		if indexBenchmark != "" {
			start, err := time.Parse("2006-01-02", indexStart)
			if err != nil {
				return fmt.Errorf("index: invalid --start: %w", err)
			}
			end, err := time.Parse("2006-01-02", indexEnd)
			if err != nil {
				return fmt.Errorf("index: invalid --end: %w", err)
			}
			result, err := builder.BuildBenchmark(ctx, indexBenchmark, start, end)
			if err != nil {
				return err
			}
			return json.NewEncoder(os.Stdout).Encode(result)
		}

		if indexRequestFile == "" {
			return fmt.Errorf("index: --request or --benchmark is required")
		}
		body, err := os.ReadFile(indexRequestFile)
		if err != nil {
			return fmt.Errorf("index: read request file: %w", err)
		}
		var req model.IndexRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return fmt.Errorf("index: parse request file: %w", err)
		}

		result, err := builder.Build(ctx, req)
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(result)
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexRequestFile, "request", "", "path to a JSON model.IndexRequest")
	indexCmd.Flags().StringVar(&indexBenchmark, "benchmark", "", "raw.benchmarks symbol to compute risk/return for")
	indexCmd.Flags().StringVar(&indexStart, "start", "", "benchmark window start date (YYYY-MM-DD)")
	indexCmd.Flags().StringVar(&indexEnd, "end", "", "benchmark window end date (YYYY-MM-DD)")
	rootCmd.AddCommand(indexCmd)
}
