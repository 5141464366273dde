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
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	exprand "golang.org/x/exp/rand"

	"github.com/ttbt-io/dugout/backend/mlbstats"
	"github.com/ttbt-io/dugout/backend/sim"
)

// Simulator turns validated requests into completed, optionally
// persisted, batches. It is safe for concurrent use: every run owns its
// rosters and its random sources.
type Simulator struct {
	Config   Config
	Provider *mlbstats.Provider
	Store    *BatchStore // nil disables persistence
}

// Run executes one simulation batch. The owner (may be empty) is
// recorded on the stored batch. The progress callback, when non-nil, is
// invoked after every completed game.
func (s *Simulator) Run(ctx context.Context, req SimulateRequest, owner string, progress func(game int, r sim.GameResult)) (*BatchRecord, error) {
	req.Normalize(s.Config)
	if err := req.Validate(s.Config); err != nil {
		return nil, err
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	awayRow, homeRow, source, err := s.teamRows(ctx, req)
	if err != nil {
		return nil, err
	}

	// One seed drives both the roster sampling and the game sampler, so
	// a seeded request is reproducible end to end.
	away, home, err := mlbstats.SampleMatchup(awayRow, homeRow, req.Concentration, exprand.NewSource(uint64(seed)))
	if err != nil {
		return nil, err
	}

	batch := sim.NewBatch(away, home, sim.NewSampler(seed))
	start := time.Now()
	results, err := batch.Run(req.Games, progress)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	teams, players := batch.Summarize()
	rec := &BatchRecord{
		ID:            uuid.NewString(),
		SchemaVersion: CurrentSchemaVersion,
		CreatedAt:     time.Now().UnixNano(),
		OwnerID:       owner,
		Seed:          seed,
		Games:         req.Games,
		Source:        source,
		Concentration: req.Concentration,
		Away:          TeamInfo{Name: away.Name, Wins: away.Wins, Losses: away.Losses},
		Home:          TeamInfo{Name: home.Name, Wins: home.Wins, Losses: home.Losses},
		Results:       results,
		TeamSummary:   teams,
		PlayerSummary: players,
		Metrics:       CollectMetrics(results, elapsed),
	}
	if source == "scrape" {
		rec.Year = req.Year
	}

	if s.Store != nil {
		if err := s.Store.SaveBatch(rec); err != nil {
			// The simulation itself succeeded; surface the record and
			// let the caller decide how loud to be.
			log.Printf("Warning: failed to persist batch %s: %v", rec.ID, err)
		}
	}
	return rec, nil
}

// teamRows resolves the two team-level distributions for a request.
func (s *Simulator) teamRows(ctx context.Context, req SimulateRequest) (away, home mlbstats.TeamRow, source string, err error) {
	if req.Probabilities != nil {
		dist, derr := DistributionFromMap(req.Probabilities)
		if derr != nil {
			return away, home, "", derr
		}
		name1, name2 := req.Team1, req.Team2
		if name1 == "" {
			name1 = "away"
		}
		if name2 == "" {
			name2 = "home"
		}
		return mlbstats.TeamRow{Team: name1, Probs: dist},
			mlbstats.TeamRow{Team: name2, Probs: dist}, "custom", nil
	}

	if req.UseScrape {
		if s.Provider == nil {
			return away, home, "", fmt.Errorf("league stats provider not configured")
		}
		rows, ferr := s.Provider.TeamProbabilities(ctx, req.Year)
		if ferr != nil {
			return away, home, "", ferr
		}
		away, err = mlbstats.FindTeam(rows, req.Team1, 0)
		if err != nil {
			return away, home, "", err
		}
		fallback := 1
		if len(rows) == 1 {
			fallback = 0
		}
		home, err = mlbstats.FindTeam(rows, req.Team2, fallback)
		if err != nil {
			return away, home, "", err
		}
		return away, home, "scrape", nil
	}

	dist, derr := s.Config.TemplateDistribution()
	if derr != nil {
		return away, home, "", derr
	}
	return mlbstats.TeamRow{Team: "away", Probs: dist},
		mlbstats.TeamRow{Team: "home", Probs: dist}, "template", nil
}

// Payload projects a stored record into the response body shape.
func (r *BatchRecord) Payload() SummaryPayload {
	return SummaryPayload{
		TeamSummary: r.TeamSummary,
		Players:     r.PlayerSummary,
		Games:       len(r.Results),
	}
}
