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
	"bytes"
	"testing"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/ttbt-io/dugout/backend/sim"
)

func diffStrings(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	t.Errorf("Output mismatch:\n%s", diff)
}

func TestWriteGameLogCSV(t *testing.T) {
	results := []sim.GameResult{
		{Score: [2]int{3, 5}, Winner: sim.Home, Innings: 9, AtBats: 70},
		{Score: [2]int{4, 2}, Winner: sim.Away, Innings: 9, AtBats: 66},
		{Score: [2]int{1, 2}, Winner: sim.Home, Innings: 11, AtBats: 85},
	}

	var buf bytes.Buffer
	if err := WriteGameLogCSV(&buf, results); err != nil {
		t.Fatalf("WriteGameLogCSV failed: %v", err)
	}

	want := "game_index,winner,score_home,score_away\n" +
		"1,home,5,3\n" +
		"2,away,2,4\n" +
		"3,home,2,1\n"
	diffStrings(t, want, buf.String())
}

func TestWriteGameLogCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGameLogCSV(&buf, nil); err != nil {
		t.Fatalf("WriteGameLogCSV failed: %v", err)
	}
	diffStrings(t, "game_index,winner,score_home,score_away\n", buf.String())
}

func TestWriteSummaryCSV(t *testing.T) {
	teams := []sim.TeamSummary{
		{Team: 0, Name: "Away Stars", Wins: 40, Losses: 60},
		{Team: 1, Name: "Home Sox", Wins: 60, Losses: 40},
	}
	players := []sim.PlayerSummary{
		{Team: 0, Player: 0, OBP: 0.35, AVE: 0.275, SLG: 0.41},
		{Team: 1, Player: 3, OBP: 0.4, AVE: 0.3, SLG: 0.5555},
	}

	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, teams, players); err != nil {
		t.Fatalf("WriteSummaryCSV failed: %v", err)
	}

	want := "type,team,player,OBP,AVE,SLG,wins,losses\n" +
		"team,0,,,,,40,60\n" +
		"team,1,,,,,60,40\n" +
		"player,0,0,0.350,0.275,0.410,,\n" +
		"player,1,3,0.400,0.300,0.556,,\n"
	diffStrings(t, want, buf.String())
}
