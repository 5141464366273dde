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

package sim

// Batter is one slot in a batting order: a fixed outcome distribution
// plus the cumulative history of every plate appearance the batter has
// taken during a run. History is append-only and is never reset between
// games, so rate statistics aggregate across the whole batch.
type Batter struct {
	Slot    int
	dist    Distribution
	history []Outcome
}

// NewBatter validates the distribution and returns a Batter for the
// given batting-order slot. The distribution is copied; later mutation
// of the caller's map does not affect the batter.
func NewBatter(slot int, dist Distribution) (*Batter, error) {
	if err := dist.Validate(); err != nil {
		return nil, err
	}
	return &Batter{Slot: slot, dist: dist.Clone()}, nil
}

// AtBat draws one outcome from the batter's distribution, records it in
// the history, and returns it.
func (b *Batter) AtBat(s *Sampler) Outcome {
	o := s.Draw(b.dist)
	b.history = append(b.history, o)
	return o
}

// Distribution returns a copy of the batter's outcome distribution.
func (b *Batter) Distribution() Distribution {
	return b.dist.Clone()
}

// PlateAppearances returns the number of recorded at-bats.
func (b *Batter) PlateAppearances() int {
	return len(b.history)
}

// History returns the recorded outcomes. The returned slice is the
// batter's own backing store and must not be mutated.
func (b *Batter) History() []Outcome {
	return b.history
}

// OnBasePct is the fraction of plate appearances that did not end in an
// out. Returns 0 when the batter has no recorded appearances.
func (b *Batter) OnBasePct() float64 {
	if len(b.history) == 0 {
		return 0
	}
	onBase := 0
	for _, o := range b.history {
		if o != Out {
			onBase++
		}
	}
	return float64(onBase) / float64(len(b.history))
}

// BattingAvg is hits over official at-bats. Walks are excluded from both
// the numerator and the denominator. Returns 0 when every recorded
// appearance was a walk.
func (b *Batter) BattingAvg() float64 {
	atBats, hits := 0, 0
	for _, o := range b.history {
		if o == Walk {
			continue
		}
		atBats++
		if o != Out {
			hits++
		}
	}
	if atBats == 0 {
		return 0
	}
	return float64(hits) / float64(atBats)
}

// Slugging is the average number of bases per plate appearance, with a
// walk counted as one base. Returns 0 when the batter has no recorded
// appearances.
func (b *Batter) Slugging() float64 {
	if len(b.history) == 0 {
		return 0
	}
	bases := 0
	for _, o := range b.history {
		bases += o.Bases()
	}
	return float64(bases) / float64(len(b.history))
}
