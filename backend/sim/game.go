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

// Side identifies which lineup is batting. The away side bats first.
type Side int

const (
	Away Side = iota
	Home
)

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// Other returns the opposing side.
func (s Side) Other() Side {
	return 1 - s
}

// Game is the per-trial state machine. It is created fresh for each
// simulated game, advanced one at-bat at a time, and discarded once
// complete. All containers are allocated per instance; two games never
// share baserunner or score state.
type Game struct {
	rosters [2]*Roster
	inning  int
	outs    int
	batting Side
	bases   [3]bool // first, second, third
	score   [2]int  // indexed by Side
	next    [2]int  // batting-order pointer per side, wraps mod 9
	atBats  int
	done    bool
}

// NewGame starts a game between two rosters in the top of the first
// inning with the away side batting.
func NewGame(away, home *Roster) *Game {
	return &Game{
		rosters: [2]*Roster{away, home},
		inning:  1,
		batting: Away,
	}
}

// Done reports whether the game has reached a terminal state.
func (g *Game) Done() bool { return g.done }

// Inning returns the current inning number, starting at 1.
func (g *Game) Inning() int { return g.inning }

// Outs returns the out count in the current half-inning. It is always in
// {0,1,2} while the game is in progress; three outs roll over the
// half-inning within the same Advance call.
func (g *Game) Outs() int { return g.outs }

// Batting returns the side currently at bat.
func (g *Game) Batting() Side { return g.batting }

// Bases returns the occupancy of first, second and third base.
func (g *Game) Bases() [3]bool { return g.bases }

// Score returns the away and home run totals.
func (g *Game) Score() (away, home int) {
	return g.score[Away], g.score[Home]
}

// AtBats returns the number of plate appearances resolved so far.
func (g *Game) AtBats() int { return g.atBats }

// Winner returns the leading side. Only meaningful once Done reports
// true; ties cannot survive to a terminal state.
func (g *Game) Winner() Side {
	if g.score[Home] > g.score[Away] {
		return Home
	}
	return Away
}

// Advance resolves exactly one at-bat: it draws an outcome for the next
// batter on the batting side, mutates bases, outs and score, rolls over
// the half-inning on the third out, and evaluates termination.
//
// The game completes when a home half ends in inning nine or later with
// the score unequal, or immediately when the home side takes the lead
// during its at-bat in inning nine or later (walk-off; the half-inning
// is not finished). Tied games extend into extra innings without a cap.
//
// Calling Advance on a completed game returns ErrGameOver.
func (g *Game) Advance(s *Sampler) error {
	if g.done {
		return ErrGameOver
	}

	side := g.batting
	batter := g.rosters[side].Batters[g.next[side]]
	g.next[side] = (g.next[side] + 1) % RosterSize
	g.atBats++

	switch o := batter.AtBat(s); o {
	case Out:
		g.outs++
	case Walk:
		g.score[side] += g.applyWalk()
	default:
		g.score[side] += g.applyHit(o.Bases())
	}

	// Walk-off: home leads during its own at-bat in the 9th or later.
	// The half-inning is left as it stood when the game ended.
	if side == Home && g.inning >= 9 && g.score[Home] > g.score[Away] {
		g.done = true
		return nil
	}

	if g.outs == 3 {
		if side == Home && g.inning >= 9 && g.score[Away] != g.score[Home] {
			g.done = true
			g.outs = 0
			g.bases = [3]bool{}
			return nil
		}
		g.outs = 0
		g.bases = [3]bool{}
		if side == Home {
			g.inning++
		}
		g.batting = side.Other()
	}
	return nil
}

// applyWalk places the batter on first and advances runners only as far
// as they are forced. A runner on second or third holds unless pushed by
// a runner immediately behind. Returns the runs scored (at most one,
// when the bases were loaded).
func (g *Game) applyWalk() int {
	runs := 0
	if g.bases[0] {
		switch {
		case !g.bases[1]:
			g.bases[1] = true
		case !g.bases[2]:
			g.bases[2] = true
		default:
			runs = 1
		}
	}
	g.bases[0] = true
	return runs
}

// applyHit advances every runner by n bases, scores those pushed past
// third, and places the batter n-1 bases along (or scores the batter on
// a home run). Returns the runs scored.
func (g *Game) applyHit(n int) int {
	runs := 0
	var after [3]bool
	for i, occupied := range g.bases {
		if !occupied {
			continue
		}
		if i+n >= 3 {
			runs++
		} else {
			after[i+n] = true
		}
	}
	if n >= 4 {
		runs++
	} else {
		after[n-1] = true
	}
	g.bases = after
	return runs
}
