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
	"fmt"
	"regexp"
)

// uuidRegex is a regex for standard UUIDs (8-4-4-4-12 hex digits)
var uuidRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

// isValidUUID checks if the string is a valid UUID.
func isValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

// SimulateRequest is the payload accepted by POST /api/simulate and the
// WebSocket endpoint.
type SimulateRequest struct {
	Games         int                `json:"games"`
	Seed          *int64             `json:"seed,omitempty"`
	Concentration float64            `json:"concentration,omitempty"`
	UseScrape     bool               `json:"use_scrape,omitempty"`
	Year          int                `json:"year,omitempty"`
	Team1         string             `json:"team1,omitempty"`
	Team2         string             `json:"team2,omitempty"`
	Probabilities map[string]float64 `json:"probabilities,omitempty"`
}

// Normalize fills request defaults from the config.
func (req *SimulateRequest) Normalize(cfg Config) {
	if req.Games == 0 {
		req.Games = DefaultGames
	}
	if req.Concentration == 0 {
		req.Concentration = cfg.Concentration
	}
	if req.Year == 0 {
		req.Year = cfg.DefaultYear
	}
}

// Validate rejects requests the simulator cannot serve. It runs after
// Normalize so zero-value defaults have been filled in.
func (req *SimulateRequest) Validate(cfg Config) error {
	if req.Games < 1 || req.Games > cfg.MaxGames {
		return fmt.Errorf("games must be between 1 and %d, got %d", cfg.MaxGames, req.Games)
	}
	if req.Concentration <= 0 {
		return fmt.Errorf("concentration must be positive, got %v", req.Concentration)
	}
	if req.UseScrape {
		if req.Year < 1876 || req.Year > 2100 {
			return fmt.Errorf("year %d out of range", req.Year)
		}
	}
	if req.Probabilities != nil {
		if _, err := DistributionFromMap(req.Probabilities); err != nil {
			return fmt.Errorf("probabilities: %w", err)
		}
	}
	return nil
}
