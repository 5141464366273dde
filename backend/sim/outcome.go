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

// Package sim implements the plate-appearance level baseball simulation:
// outcome distributions, batters, rosters, the per-game state machine and
// the batch driver that plays many independent games and aggregates the
// results.
package sim

import (
	"errors"
	"fmt"
)

// Outcome is one of the six plate-appearance results the model recognizes.
type Outcome string

const (
	Single  Outcome = "1B"
	Double  Outcome = "2B"
	Triple  Outcome = "3B"
	HomeRun Outcome = "HR"
	Walk    Outcome = "WALK"
	Out     Outcome = "OUT"
)

// Outcomes lists every outcome in a fixed order. Sampling iterates this
// slice so that a seeded random source always sees the same cumulative
// weight layout.
var Outcomes = []Outcome{Single, Double, Triple, HomeRun, Walk, Out}

// Bases returns the number of bases credited to the batter for the
// outcome. A walk counts as one base, matching the slugging formula used
// throughout (slightly different from the standard definition, which
// excludes walks).
func (o Outcome) Bases() int {
	switch o {
	case Walk, Single:
		return 1
	case Double:
		return 2
	case Triple:
		return 3
	case HomeRun:
		return 4
	default:
		return 0
	}
}

// Valid reports whether o is one of the six known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case Single, Double, Triple, HomeRun, Walk, Out:
		return true
	}
	return false
}

var (
	// ErrInvalidDistribution is returned when a distribution has a
	// negative weight, an unknown outcome label, or weights that sum
	// to zero. An invalid distribution is never silently replaced with
	// a default.
	ErrInvalidDistribution = errors.New("invalid outcome distribution")

	// ErrRosterSize is returned when a roster is built with anything
	// other than nine batters.
	ErrRosterSize = errors.New("roster must have exactly 9 batters")

	// ErrGameOver is returned by Game.Advance once the game is
	// complete. Advancing a finished game is a caller bug, not a
	// condition to retry.
	ErrGameOver = errors.New("game is already complete")
)

// Distribution maps outcomes to non-negative weights. Weights need not
// sum to 1; sampling normalizes internally.
type Distribution map[Outcome]float64

// Validate checks that every weight is non-negative, every key is a known
// outcome, and the total weight is positive.
func (d Distribution) Validate() error {
	var total float64
	for o, w := range d {
		if !o.Valid() {
			return fmt.Errorf("%w: unknown outcome %q", ErrInvalidDistribution, o)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight %v for %s", ErrInvalidDistribution, w, o)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("%w: weights sum to %v", ErrInvalidDistribution, total)
	}
	return nil
}

// Clone returns an independent copy of the distribution.
func (d Distribution) Clone() Distribution {
	c := make(Distribution, len(d))
	for o, w := range d {
		c[o] = w
	}
	return c
}

// weights returns the distribution's weights in Outcomes order along with
// their sum. Missing outcomes contribute zero weight.
func (d Distribution) weights() (w [6]float64, total float64) {
	for i, o := range Outcomes {
		w[i] = d[o]
		total += w[i]
	}
	return w, total
}
