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

package mlbstats

import (
	"fmt"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/ttbt-io/dugout/backend/sim"
)

// DefaultConcentration is the Dirichlet concentration used when the
// caller does not specify one. Higher values keep players closer to the
// team-level probabilities.
const DefaultConcentration = 50.0

// Dirichlet components require strictly positive shape parameters; team
// rows can legitimately carry a zero weight (a season with no triples),
// so those components are floored instead of rejected.
const minAlpha = 1e-6

// SampleRoster draws nine player distributions from a Dirichlet centered
// on the team's outcome probabilities and builds a roster from them. The
// team distribution need not be normalized; an all-zero distribution is
// treated as uniform before scaling.
func SampleRoster(name string, team sim.Distribution, concentration float64, src exprand.Source) (*sim.Roster, error) {
	if concentration <= 0 {
		return nil, fmt.Errorf("concentration must be positive, got %v", concentration)
	}

	var base [6]float64
	var total float64
	for i, o := range sim.Outcomes {
		w := team[o]
		if w < 0 {
			return nil, fmt.Errorf("negative weight %v for %s", w, o)
		}
		base[i] = w
		total += w
	}
	if total == 0 {
		for i := range base {
			base[i] = 1
		}
		total = float64(len(base))
	}

	alpha := make([]float64, len(base))
	for i, w := range base {
		alpha[i] = w / total * concentration
		if alpha[i] < minAlpha {
			alpha[i] = minAlpha
		}
	}

	dir := distmv.NewDirichlet(alpha, src)
	batters := make([]*sim.Batter, 0, sim.RosterSize)
	for i := 0; i < sim.RosterSize; i++ {
		probs := dir.Rand(nil)
		dist := make(sim.Distribution, len(sim.Outcomes))
		for j, o := range sim.Outcomes {
			dist[o] = probs[j]
		}
		b, err := sim.NewBatter(i, dist)
		if err != nil {
			return nil, fmt.Errorf("batter %d: %w", i, err)
		}
		batters = append(batters, b)
	}
	return sim.NewRoster(name, batters)
}

// SampleMatchup builds an away and a home roster around two team rows
// using a single source so a seed reproduces both lineups.
func SampleMatchup(away, home TeamRow, concentration float64, src exprand.Source) (*sim.Roster, *sim.Roster, error) {
	if concentration <= 0 {
		concentration = DefaultConcentration
	}
	a, err := SampleRoster(away.Team, away.Probs, concentration, src)
	if err != nil {
		return nil, nil, fmt.Errorf("away roster: %w", err)
	}
	h, err := SampleRoster(home.Team, home.Probs, concentration, src)
	if err != nil {
		return nil, nil, fmt.Errorf("home roster: %w", err)
	}
	return a, h, nil
}
