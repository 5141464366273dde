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
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestProviderFetchAndCache(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/2019-standard-batting.shtml" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(battingFixture))
	}))
	defer ts.Close()

	p := NewProvider(ts.URL + "/%d-standard-batting.shtml")

	rows, err := p.TeamProbabilities(context.Background(), 2019)
	if err != nil {
		t.Fatalf("TeamProbabilities: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	again, err := p.TeamProbabilities(context.Background(), 2019)
	if err != nil {
		t.Fatalf("TeamProbabilities (cached): %v", err)
	}
	if len(again) != len(rows) {
		t.Errorf("cached result has %d rows, want %d", len(again), len(rows))
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hit %d times, want 1 (second call cached)", got)
	}
}

func TestProviderBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	p := NewProvider(ts.URL + "/%d.shtml")
	p.client.RetryMax = 0
	if _, err := p.TeamProbabilities(context.Background(), 1900); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestFindTeam(t *testing.T) {
	rows := []TeamRow{
		{Team: "Arizona Diamondbacks"},
		{Team: "Boston Red Sox"},
	}

	row, err := FindTeam(rows, "boston red sox", 0)
	if err != nil {
		t.Fatalf("FindTeam: %v", err)
	}
	if row.Team != "Boston Red Sox" {
		t.Errorf("got %q", row.Team)
	}

	row, err = FindTeam(rows, "", 1)
	if err != nil {
		t.Fatalf("FindTeam fallback: %v", err)
	}
	if row.Team != "Boston Red Sox" {
		t.Errorf("fallback got %q", row.Team)
	}

	if _, err := FindTeam(rows, "Springfield Isotopes", 0); err == nil {
		t.Error("expected error for unknown team")
	}
	if _, err := FindTeam(rows, "", 5); err == nil {
		t.Error("expected error for out-of-range fallback index")
	}
}
