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

package mlbstats

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultURLTemplate is the season batting page, parameterized by year.
const DefaultURLTemplate = "https://www.baseball-reference.com/leagues/MLB/%d-standard-batting.shtml"

const cachedSeasons = 8

// Provider fetches and caches per-season team probability tables. A
// season's table never changes once published, so entries are cached
// for the life of the process (LRU-bounded).
type Provider struct {
	client      *retryablehttp.Client
	urlTemplate string
	cache       *lru.Cache[int, []TeamRow]
}

// NewProvider returns a Provider using the given URL template, or
// DefaultURLTemplate when empty.
func NewProvider(urlTemplate string) *Provider {
	if urlTemplate == "" {
		urlTemplate = DefaultURLTemplate
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	cache, err := lru.New[int, []TeamRow](cachedSeasons)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Provider{
		client:      client,
		urlTemplate: urlTemplate,
		cache:       cache,
	}
}

// TeamProbabilities returns the normalized outcome probability rows for
// every team in the given season, fetching the page on a cache miss.
func (p *Provider) TeamProbabilities(ctx context.Context, year int) ([]TeamRow, error) {
	if rows, ok := p.cache.Get(year); ok {
		return rows, nil
	}

	url := fmt.Sprintf(p.urlTemplate, year)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	rows, err := ParseBattingTable(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("season %d: %w", year, err)
	}
	p.cache.Add(year, rows)
	return rows, nil
}

// FindTeam returns the row whose team name matches (case-insensitive).
// An empty name selects the row at the given fallback index.
func FindTeam(rows []TeamRow, name string, fallback int) (TeamRow, error) {
	if name == "" {
		if fallback < 0 || fallback >= len(rows) {
			return TeamRow{}, fmt.Errorf("no team at index %d", fallback)
		}
		return rows[fallback], nil
	}
	for _, row := range rows {
		if strings.EqualFold(row.Team, name) {
			return row, nil
		}
	}
	available := make([]string, 0, len(rows))
	for _, row := range rows {
		available = append(available, row.Team)
		if len(available) == 10 {
			break
		}
	}
	return TeamRow{}, fmt.Errorf("team %q not found; available: %s", name, strings.Join(available, ", "))
}
