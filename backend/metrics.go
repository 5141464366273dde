// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"time"

	"github.com/ttbt-io/dugout/backend/sim"
)

// HistogramBuckets is shared by the innings and at-bats histograms; the
// last bucket absorbs the tail (marathon extra-inning games).
const HistogramBuckets = 32

// AtBatBucketSize makes at-bat buckets 10 wide.
const AtBatBucketSize = 10

// Histogram is a fixed-bucket counter for small integer observations.
type Histogram struct {
	Buckets [HistogramBuckets]uint64 `json:"b"`
	Count   uint64                   `json:"c"`
	Sum     float64                  `json:"s"`
}

// Add records v into the bucket at index v/width (clamped).
func (h *Histogram) Add(v, width int) {
	idx := v / width
	if idx >= len(h.Buckets) {
		idx = len(h.Buckets) - 1
	}
	if idx < 0 {
		idx = 0
	}
	h.Buckets[idx]++
	h.Count++
	h.Sum += float64(v)
}

// Merge folds other into h.
func (h *Histogram) Merge(other *Histogram) {
	if other == nil {
		return
	}
	for i := range h.Buckets {
		h.Buckets[i] += other.Buckets[i]
	}
	h.Count += other.Count
	h.Sum += other.Sum
}

// Mean returns the average observation, or 0 with no observations.
func (h *Histogram) Mean() float64 {
	if h.Count == 0 {
		return 0
	}
	return h.Sum / float64(h.Count)
}

// RunMetrics aggregates shape and throughput of one completed batch.
type RunMetrics struct {
	Innings     Histogram `json:"innings"`
	AtBats      Histogram `json:"atBats"`
	ExtraInning int       `json:"extraInningGames"`
	DurationMS  int64     `json:"durationMs"`
	GamesPerSec float64   `json:"gamesPerSec"`
}

// CollectMetrics builds RunMetrics from a result log and the wall time
// the run took.
func CollectMetrics(results []sim.GameResult, elapsed time.Duration) *RunMetrics {
	m := &RunMetrics{DurationMS: elapsed.Milliseconds()}
	for _, r := range results {
		m.Innings.Add(r.Innings, 1)
		m.AtBats.Add(r.AtBats, AtBatBucketSize)
		if r.Innings > 9 {
			m.ExtraInning++
		}
	}
	if sec := elapsed.Seconds(); sec > 0 {
		m.GamesPerSec = float64(len(results)) / sec
	}
	return m
}
