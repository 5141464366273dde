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
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

var templateDist = Distribution{
	Single: 0.2, Double: 0.1, Triple: 0.05,
	HomeRun: 0.1, Walk: 0.15, Out: 0.4,
}

func templateBatch(t *testing.T, seed int64) *Batch {
	t.Helper()
	away, err := NewUniformRoster("away", templateDist)
	if err != nil {
		t.Fatalf("NewUniformRoster: %v", err)
	}
	home, err := NewUniformRoster("home", templateDist)
	if err != nil {
		t.Fatalf("NewUniformRoster: %v", err)
	}
	return NewBatch(away, home, NewSampler(seed))
}

func TestBatchDeterminism(t *testing.T) {
	a := templateBatch(t, 42)
	b := templateBatch(t, 42)

	resA, err := a.Run(200, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	resB, err := b.Run(200, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	jsonA, err := json.Marshal(resA)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	jsonB, err := json.Marshal(resB)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(jsonA, jsonB) {
		t.Error("same seed and game count produced different result sequences")
	}
}

func TestBatchSeedChangesResults(t *testing.T) {
	a := templateBatch(t, 1)
	b := templateBatch(t, 2)
	resA, err := a.Run(50, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	resB, err := b.Run(50, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	jsonA, _ := json.Marshal(resA)
	jsonB, _ := json.Marshal(resB)
	if bytes.Equal(jsonA, jsonB) {
		t.Error("different seeds produced identical result sequences")
	}
}

func TestBatchRecordsAndResults(t *testing.T) {
	b := templateBatch(t, 5)
	results, err := b.Run(100, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 100 {
		t.Fatalf("got %d results, want 100", len(results))
	}

	homeWins := 0
	for i, r := range results {
		if r.Score[0] == r.Score[1] {
			t.Errorf("game %d ended tied %v", i, r.Score)
		}
		wantWinner := Away
		if r.Score[1] > r.Score[0] {
			wantWinner = Home
		}
		if r.Winner != wantWinner {
			t.Errorf("game %d winner = %s, score %v", i, r.Winner, r.Score)
		}
		if r.Innings < 9 {
			t.Errorf("game %d completed in %d innings", i, r.Innings)
		}
		if r.Winner == Home {
			homeWins++
		}
	}

	if b.Home().Wins != homeWins || b.Home().Losses != 100-homeWins {
		t.Errorf("home record %d-%d, want %d-%d", b.Home().Wins, b.Home().Losses, homeWins, 100-homeWins)
	}
	if b.Away().Wins != 100-homeWins || b.Away().Losses != homeWins {
		t.Errorf("away record %d-%d, want %d-%d", b.Away().Wins, b.Away().Losses, 100-homeWins, homeWins)
	}
}

func TestIdenticalRostersNearEvenSplit(t *testing.T) {
	b := templateBatch(t, 2024)
	results, err := b.Run(1000, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	homeWins := 0
	for _, r := range results {
		if r.Winner == Home {
			homeWins++
		}
	}
	rate := float64(homeWins) / float64(len(results))
	if rate < 0.42 || rate > 0.58 {
		t.Errorf("home win rate = %.3f over 1000 games, want ~0.50", rate)
	}
}

func TestAllOutLineupsStall(t *testing.T) {
	// Two all-OUT lineups tie 0-0 forever; the rules put no cap on
	// extra innings, so the at-bat cap is the only way out. This is
	// documented behavior for a degenerate but valid distribution.
	away := pointRoster(t, "away", Out)
	home := pointRoster(t, "home", Out)
	b := NewBatch(away, home, NewSampler(1))
	b.MaxAtBats = 2000

	if _, err := b.Run(1, nil); !errors.Is(err, ErrGameStalled) {
		t.Errorf("Run err = %v, want ErrGameStalled", err)
	}
}

func TestAllHomeRunLineupNeverEndsHalf(t *testing.T) {
	// With OUT weight zero the first half-inning can never record an
	// out, so the game stays in the top of the 1st, scoring on every
	// at-bat. Bounded here and documented as expected behavior.
	away := pointRoster(t, "away", HomeRun)
	home := pointRoster(t, "home", HomeRun)
	g := NewGame(away, home)
	s := NewSampler(1)

	for i := 0; i < 100; i++ {
		if err := g.Advance(s); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	if g.Done() {
		t.Fatal("all-HR game reported done")
	}
	if g.Inning() != 1 || g.Batting() != Away || g.Outs() != 0 {
		t.Errorf("state = inning %d, %s batting, %d outs; want top of 1st with 0 outs",
			g.Inning(), g.Batting(), g.Outs())
	}
	if awayScore, _ := g.Score(); awayScore != 100 {
		t.Errorf("away score = %d after 100 home runs, want 100", awayScore)
	}
}

func TestShutoutWalkoffScenario(t *testing.T) {
	// A team that never reaches base cannot score; the home side wins
	// every game without conceding, ending in the 9th or, if it was
	// held scoreless that long, whichever extra inning it first
	// homers in.
	away := pointRoster(t, "away", Out)
	home, err := NewUniformRoster("home", Distribution{HomeRun: 0.25, Out: 0.75})
	if err != nil {
		t.Fatalf("NewUniformRoster: %v", err)
	}
	b := NewBatch(away, home, NewSampler(7))
	results, err := b.Run(10, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, r := range results {
		if r.Winner != Home {
			t.Errorf("game %d winner = %s, want home", i, r.Winner)
		}
		if r.Score[0] != 0 {
			t.Errorf("game %d away score = %d, want 0", i, r.Score[0])
		}
		if r.Innings < 9 {
			t.Errorf("game %d ended after %d innings", i, r.Innings)
		}
	}
}

func TestRunProgressCallback(t *testing.T) {
	b := templateBatch(t, 11)
	var seen []int
	_, err := b.Run(5, func(game int, r GameResult) {
		seen = append(seen, game)
		if r.Score[0] == r.Score[1] {
			t.Errorf("progress delivered a tied result %v", r.Score)
		}
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{1, 2, 3, 4, 5}
	if len(seen) != len(want) {
		t.Fatalf("progress called %d times, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("progress order %v, want %v", seen, want)
			break
		}
	}
}

func TestSummarize(t *testing.T) {
	b := templateBatch(t, 3)

	// Safe before any games have been played.
	teams, players := b.Summarize()
	if len(teams) != 2 || len(players) != 18 {
		t.Fatalf("summary sizes = %d teams, %d players", len(teams), len(players))
	}
	for _, p := range players {
		if p.OBP != 0 || p.AVE != 0 || p.SLG != 0 {
			t.Errorf("pre-run player summary not zero: %+v", p)
		}
	}

	if _, err := b.Run(20, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	teams, players = b.Summarize()
	if teams[0].Wins+teams[0].Losses != 20 {
		t.Errorf("team 0 record %d-%d does not total 20", teams[0].Wins, teams[0].Losses)
	}
	if teams[0].Wins != teams[1].Losses || teams[0].Losses != teams[1].Wins {
		t.Errorf("records not mirrored: %+v vs %+v", teams[0], teams[1])
	}
	nonZero := false
	for _, p := range players {
		if p.OBP < 0 || p.OBP > 1 {
			t.Errorf("OBP out of range: %+v", p)
		}
		if p.OBP > 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("no player recorded a non-zero OBP over 20 games")
	}
}

func TestRunZeroAndNegative(t *testing.T) {
	b := templateBatch(t, 1)
	results, err := b.Run(0, nil)
	if err != nil {
		t.Errorf("Run(0) err = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Run(0) returned %d results", len(results))
	}
	if _, err := b.Run(-1, nil); err == nil {
		t.Error("Run(-1) did not error")
	}
}
