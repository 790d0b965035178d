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

	"github.com/spf13/cobra"

	"github.com/quantledger/fmpdata/summary"
)

var summaryReport bool

// summaryCmd recomputes raw.etl_summary in isolation, without running
// the rest of the pipeline -- useful after a manual data fix. With
// --report, it instead prints a markdown status of the warehouse and
// skips the recompute.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Recompute the ETL summary counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env := openPipeline(ctx)
		defer env.Close()

		if summaryReport {
			report, err := summary.Report(ctx, env.pool)
			if err != nil {
				return err
			}
			fmt.Println(report)
			return nil
		}

		return summary.Recompute(ctx, env.pool, env.gw)
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryReport, "report", false, "print a markdown status report instead of recomputing")
	rootCmd.AddCommand(summaryCmd)
}
