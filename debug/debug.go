/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package debug

import (
	"sync/atomic"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cloudwego/peephole/internal/pass"
	"github.com/cloudwego/peephole/internal/passes/zerosub"
)

// A Stats records statistics about the optimizer.
type Stats struct {
	Pipeline PipelineStats
	ZeroSub  RuleStats
}

// A PipelineStats records statistics about the pass manager.
type PipelineStats struct {
	Funcs   int
	Runs    int
	Changed int
}

// A RuleStats records statistics about a rewrite rule.
type RuleStats struct {
	Scanned int
	Removed int
}

// GetStats returns statistics of the optimizer.
func GetStats() Stats {
	return Stats{
		Pipeline: PipelineStats{
			Funcs:   int(atomic.LoadInt64(&pass.FuncCount)),
			Runs:    int(atomic.LoadInt64(&pass.RunCount)),
			Changed: int(atomic.LoadInt64(&pass.ChangeCount)),
		},
		ZeroSub: RuleStats{
			Scanned: int(atomic.LoadInt64(&zerosub.ScanCount)),
			Removed: int(atomic.LoadInt64(&zerosub.RemoveCount)),
		},
	}
}

// ResetStats clears all the counters.
func ResetStats() {
	atomic.StoreInt64(&pass.FuncCount, 0)
	atomic.StoreInt64(&pass.RunCount, 0)
	atomic.StoreInt64(&pass.ChangeCount, 0)
	atomic.StoreInt64(&zerosub.ScanCount, 0)
	atomic.StoreInt64(&zerosub.RemoveCount, 0)
}

// Table renders the statistics as a text table.
func (self Stats) Table() string {
	tw := table.NewWriter()
	tw.SetTitle("peephole")
	tw.AppendHeader(table.Row{"Counter", "Value"})
	tw.AppendRows([]table.Row{
		{"functions processed", self.Pipeline.Funcs},
		{"pass runs", self.Pipeline.Runs},
		{"pass runs with changes", self.Pipeline.Changed},
		{"zerosub: instructions scanned", self.ZeroSub.Scanned},
		{"zerosub: instructions removed", self.ZeroSub.Removed},
	})
	return tw.Render()
}
