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

import "fmt"

// RosterSize is the fixed number of batters in a batting order.
const RosterSize = 9

// Roster is an ordered batting lineup of exactly nine batters plus the
// team's running win/loss record for the batch.
type Roster struct {
	Name    string
	Batters [RosterSize]*Batter
	Wins    int
	Losses  int
}

// NewRoster builds a roster from exactly nine batters.
func NewRoster(name string, batters []*Batter) (*Roster, error) {
	if len(batters) != RosterSize {
		return nil, fmt.Errorf("%w: got %d", ErrRosterSize, len(batters))
	}
	r := &Roster{Name: name}
	copy(r.Batters[:], batters)
	return r, nil
}

// NewUniformRoster builds a roster of nine batters that all share the
// same outcome distribution. Each batter gets its own copy, so their
// histories stay independent.
func NewUniformRoster(name string, dist Distribution) (*Roster, error) {
	batters := make([]*Batter, 0, RosterSize)
	for i := 0; i < RosterSize; i++ {
		b, err := NewBatter(i, dist)
		if err != nil {
			return nil, err
		}
		batters = append(batters, b)
	}
	return NewRoster(name, batters)
}

// Record returns (wins, losses).
func (r *Roster) Record() (int, int) {
	return r.Wins, r.Losses
}
