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
package ratios

import (
	"context"

	"github.com/quantledger/fmpdata/model"
	"github.com/quantledger/fmpdata/store"
)

// Promote bulk-copies a batch of ratio rows into raw.financial_metrics
// via the stage table, like every other ingestion component.
func Promote(ctx context.Context, gw *store.Gateway, batch []model.Ratio) error {
	rows := make([][]any, len(batch))
	for i := range batch {
		rows[i] = batch[i].Row()
	}
	_, err := gw.BulkCopy(ctx, "stage.financial_metrics", "raw.financial_metrics", (&model.Ratio{}).Columns(), rows)
	return err
}
