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

import (
	"errors"
	"fmt"
)

// DefaultMaxAtBats bounds a single game. Degenerate distributions (for
// example all-OUT lineups, which tie 0-0 forever) would otherwise never
// terminate; the rules place no cap on extra innings.
const DefaultMaxAtBats = 1 << 20

// ErrGameStalled is returned when one game exceeds the at-bat cap
// without reaching a terminal state.
var ErrGameStalled = errors.New("game exceeded at-bat cap without completing")

// GameResult is the record of one completed game.
type GameResult struct {
	Score   [2]int `json:"final_score"` // away, home
	Winner  Side   `json:"winner"`
	Innings int    `json:"innings"`
	AtBats  int    `json:"at_bats"`
}

// TeamSummary is one side's aggregate record.
type TeamSummary struct {
	Team   int    `json:"team"`
	Name   string `json:"name,omitempty"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// PlayerSummary is one batter's derived rate statistics.
type PlayerSummary struct {
	Team   int     `json:"team"`
	Player int     `json:"player"`
	OBP    float64 `json:"OBP"`
	AVE    float64 `json:"AVE"`
	SLG    float64 `json:"SLG"`
}

// Batch drives repeated independent games between two rosters. One
// Sampler, seeded before the first draw, feeds every game in order, so a
// given seed and game count reproduce identical results. Games run
// serially; batter histories accumulate across the whole batch.
type Batch struct {
	rosters [2]*Roster
	sampler *Sampler
	results []GameResult

	// MaxAtBats overrides DefaultMaxAtBats when positive.
	MaxAtBats int
}

// NewBatch pairs two rosters with a sampler.
func NewBatch(away, home *Roster, sampler *Sampler) *Batch {
	return &Batch{rosters: [2]*Roster{away, home}, sampler: sampler}
}

// Away returns the away roster.
func (b *Batch) Away() *Roster { return b.rosters[Away] }

// Home returns the home roster.
func (b *Batch) Home() *Roster { return b.rosters[Home] }

// Results returns every result recorded so far.
func (b *Batch) Results() []GameResult { return b.results }

// Run plays n fresh games to completion and returns their results. Both
// rosters' win/loss records are updated once per game. A nil progress
// callback is allowed; otherwise it is invoked after each completed game
// with the 1-based game index.
func (b *Batch) Run(n int, progress func(game int, r GameResult)) ([]GameResult, error) {
	if n < 0 {
		return nil, fmt.Errorf("game count must be non-negative, got %d", n)
	}
	maxAB := b.MaxAtBats
	if maxAB <= 0 {
		maxAB = DefaultMaxAtBats
	}
	start := len(b.results)
	for i := 0; i < n; i++ {
		g := NewGame(b.rosters[Away], b.rosters[Home])
		for !g.Done() {
			if g.AtBats() >= maxAB {
				return b.results[start:], fmt.Errorf("%w: game %d", ErrGameStalled, i+1)
			}
			if err := g.Advance(b.sampler); err != nil {
				return b.results[start:], err
			}
		}
		away, home := g.Score()
		res := GameResult{
			Score:   [2]int{away, home},
			Winner:  g.Winner(),
			Innings: g.Inning(),
			AtBats:  g.AtBats(),
		}
		winner, loser := b.rosters[res.Winner], b.rosters[res.Winner.Other()]
		winner.Wins++
		loser.Losses++
		b.results = append(b.results, res)
		if progress != nil {
			progress(i+1, res)
		}
	}
	return b.results[start:], nil
}

// Summarize projects the current team records and per-batter statistics.
// It is a pure read and is safe to call at any point, including between
// games of a run.
func (b *Batch) Summarize() ([]TeamSummary, []PlayerSummary) {
	teams := make([]TeamSummary, 0, 2)
	players := make([]PlayerSummary, 0, 2*RosterSize)
	for t, roster := range b.rosters {
		teams = append(teams, TeamSummary{
			Team:   t,
			Name:   roster.Name,
			Wins:   roster.Wins,
			Losses: roster.Losses,
		})
		for p, batter := range roster.Batters {
			players = append(players, PlayerSummary{
				Team:   t,
				Player: p,
				OBP:    batter.OnBasePct(),
				AVE:    batter.BattingAvg(),
				SLG:    batter.Slugging(),
			})
		}
	}
	return teams, players
}
