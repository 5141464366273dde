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

// Command simtool runs simulation batches from the command line, without
// the web server. Results print to stdout and can be exported as CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/ttbt-io/dugout/backend"
	"github.com/ttbt-io/dugout/backend/mlbstats"
	"github.com/ttbt-io/dugout/backend/sim"
)

var (
	games         = flag.Int("games", 0, "Number of games to simulate (default from config)")
	seed          = flag.Int64("seed", 0, "Random seed; omit for a time-based seed")
	configPath    = flag.String("config", "", "Path to a YAML config file")
	outGameLog    = flag.String("out", "", "Write the per-game log CSV to this file")
	outSummary    = flag.String("out-summary", "", "Write the summary CSV to this file")
	useScrape     = flag.Bool("use-scrape", false, "Build rosters from league batting stats")
	year          = flag.Int("year", 0, "Season to fetch when scraping (default from config)")
	team1         = flag.String("team1", "", "Away team name (scrape mode)")
	team2         = flag.String("team2", "", "Home team name (scrape mode)")
	concentration = flag.Float64("concentration", 0, "Dirichlet concentration for roster sampling")
	noProgress    = flag.Bool("no-progress", false, "Suppress per-game progress output")
	topPlayers    = flag.Int("top", 10, "Number of players to print, ranked by OBP")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	cfg, err := backend.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	req := backend.SimulateRequest{
		Games:         *games,
		Concentration: *concentration,
		UseScrape:     *useScrape,
		Year:          *year,
		Team1:         *team1,
		Team2:         *team2,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			req.Seed = seed
		}
	})

	simulator := &backend.Simulator{
		Config:   cfg,
		Provider: mlbstats.NewProvider(cfg.StatsURL),
	}

	var progress func(game int, r sim.GameResult)
	if !*noProgress {
		progress = func(game int, r sim.GameResult) {
			fmt.Fprintf(os.Stderr, "game %d: away %d - home %d (%s wins, %d innings)\n",
				game, r.Score[sim.Away], r.Score[sim.Home], r.Winner, r.Innings)
		}
	}

	ctx := context.Background()
	rec, err := simulator.Run(ctx, req, "", progress)
	if err != nil && req.UseScrape {
		// A dead or throttled stats source should not kill an offline
		// run. Retry against the configured template.
		log.Printf("Warning: league stats unavailable (%v), falling back to template", err)
		req.UseScrape = false
		rec, err = simulator.Run(ctx, req, "", progress)
	}
	if err != nil {
		log.Fatalf("Simulation failed: %v", err)
	}

	printSummary(rec, *topPlayers)

	if *outGameLog != "" {
		if err := writeCSV(*outGameLog, func(f *os.File) error {
			return backend.WriteGameLogCSV(f, rec.Results)
		}); err != nil {
			log.Fatalf("Failed to write game log: %v", err)
		}
		log.Printf("Wrote game log to %s", *outGameLog)
	}
	if *outSummary != "" {
		if err := writeCSV(*outSummary, func(f *os.File) error {
			return backend.WriteSummaryCSV(f, rec.TeamSummary, rec.PlayerSummary)
		}); err != nil {
			log.Fatalf("Failed to write summary: %v", err)
		}
		log.Printf("Wrote summary to %s", *outSummary)
	}
}

func printSummary(rec *backend.BatchRecord, top int) {
	fmt.Printf("seed: %d  source: %s  games: %d\n", rec.Seed, rec.Source, len(rec.Results))
	for _, t := range rec.TeamSummary {
		name := t.Name
		if name == "" {
			name = sim.Side(t.Team).String()
		}
		fmt.Printf("%-20s %d-%d\n", name, t.Wins, t.Losses)
	}

	players := make([]sim.PlayerSummary, len(rec.PlayerSummary))
	copy(players, rec.PlayerSummary)
	sort.Slice(players, func(i, j int) bool {
		return players[i].OBP > players[j].OBP
	})
	if top > len(players) {
		top = len(players)
	}
	fmt.Printf("\n%-5s %-7s %6s %6s %6s\n", "team", "player", "OBP", "AVE", "SLG")
	for _, p := range players[:top] {
		fmt.Printf("%-5s %-7d %6.3f %6.3f %6.3f\n",
			sim.Side(p.Team), p.Player, p.OBP, p.AVE, p.SLG)
	}
}

func writeCSV(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
