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
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ttbt-io/dugout/backend/sim"
)

// SummaryPayload is the JSON body returned for a completed batch.
type SummaryPayload struct {
	TeamSummary []sim.TeamSummary   `json:"team_summary"`
	Players     []sim.PlayerSummary `json:"players"`
	Games       int                 `json:"games"`
}

// WriteGameLogCSV writes one row per game:
// game_index,winner,score_home,score_away.
func WriteGameLogCSV(w io.Writer, results []sim.GameResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"game_index", "winner", "score_home", "score_away"}); err != nil {
		return err
	}
	for i, r := range results {
		row := []string{
			strconv.Itoa(i + 1),
			r.Winner.String(),
			strconv.Itoa(r.Score[sim.Home]),
			strconv.Itoa(r.Score[sim.Away]),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes team records followed by per-player statistics:
// type,team,player,OBP,AVE,SLG,wins,losses.
func WriteSummaryCSV(w io.Writer, teams []sim.TeamSummary, players []sim.PlayerSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "team", "player", "OBP", "AVE", "SLG", "wins", "losses"}); err != nil {
		return err
	}
	for _, t := range teams {
		row := []string{
			"team",
			strconv.Itoa(t.Team),
			"", "", "", "",
			strconv.Itoa(t.Wins),
			strconv.Itoa(t.Losses),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	for _, p := range players {
		row := []string{
			"player",
			strconv.Itoa(p.Team),
			strconv.Itoa(p.Player),
			formatRate(p.OBP),
			formatRate(p.AVE),
			formatRate(p.SLG),
			"", "",
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRate(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
