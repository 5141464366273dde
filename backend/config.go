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
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ttbt-io/dugout/backend/sim"
)

// Config holds the service settings loadable from a YAML file. Flags on
// the binaries override the file where both are given.
type Config struct {
	Addr          string             `yaml:"addr"`
	DataDir       string             `yaml:"data_dir"`
	MaxGames      int                `yaml:"max_games"`
	DefaultYear   int                `yaml:"default_year"`
	Concentration float64            `yaml:"concentration"`
	StatsURL      string             `yaml:"stats_url"`
	Template      map[string]float64 `yaml:"template_probabilities"`
}

// DefaultConfig returns the built-in settings, including the example
// template distribution used when no league data is fetched.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		DataDir:       "data",
		MaxGames:      DefaultMaxGames,
		DefaultYear:   DefaultYear,
		Concentration: 50,
		Template: map[string]float64{
			"1B":   0.2,
			"2B":   0.1,
			"3B":   0.05,
			"HR":   0.1,
			"WALK": 0.15,
			"OUT":  0.4,
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.MaxGames <= 0 {
		cfg.MaxGames = DefaultMaxGames
	}
	if _, err := cfg.TemplateDistribution(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TemplateDistribution converts the configured template probabilities
// into a validated distribution.
func (c Config) TemplateDistribution() (sim.Distribution, error) {
	return DistributionFromMap(c.Template)
}

// DistributionFromMap converts a string-keyed probability map (config or
// request payload) into a validated distribution.
func DistributionFromMap(m map[string]float64) (sim.Distribution, error) {
	d := make(sim.Distribution, len(m))
	for k, v := range m {
		d[sim.Outcome(k)] = v
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
