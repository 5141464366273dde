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

// Package mlbstats turns published league batting totals into the
// per-team outcome distributions the simulator consumes: it fetches a
// season's standard-batting page, parses the stats table, derives the
// six outcome probabilities per team, and samples player-level
// distributions around a team row.
package mlbstats

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ttbt-io/dugout/backend/sim"
)

// TeamRow is one team's normalized outcome probabilities.
type TeamRow struct {
	Team  string           `json:"team"`
	Probs sim.Distribution `json:"probabilities"`
}

// ParseBattingTable reads an HTML page containing a standard-batting
// table and returns one normalized probability row per team. Derivations
// per plate appearance:
//
//	1B   = H - 2B - 3B - HR
//	WALK = BB + HBP
//	OUT  = PA - (H + WALK)
//
// Rows that do not yield a valid distribution (zero plate appearances,
// repeated header rows, negative derived counts) are skipped.
func ParseBattingTable(r io.Reader) ([]TeamRow, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	table := findFirst(doc, "table")
	if table == nil {
		return nil, fmt.Errorf("no batting table found in page")
	}

	headers := headerCells(table)
	if len(headers) == 0 {
		return nil, fmt.Errorf("batting table has no header row")
	}

	var rows []TeamRow
	for _, tr := range findAll(table, "tr") {
		cells := cellTexts(tr, "td")
		if len(cells) == 0 {
			continue
		}
		row, ok := deriveRow(headers, cells)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no team rows parsed from batting table")
	}
	return rows, nil
}

// deriveRow maps cell values onto header names and computes the outcome
// distribution. The first header usually labels a row-number column that
// has no matching td, so cells are aligned against the header tail when
// the counts differ by one.
func deriveRow(headers, cells []string) (TeamRow, bool) {
	cols := headers
	if len(cells) == len(headers)-1 {
		cols = headers[1:]
	}
	if len(cells) < len(cols) {
		cols = cols[:len(cells)]
	}

	byName := make(map[string]string, len(cols))
	for i, name := range cols {
		byName[name] = cells[i]
	}

	num := func(name string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(byName[name]), 64)
		if err != nil {
			return 0
		}
		return v
	}

	pa := num("PA")
	h := num("H")
	doubles := num("2B")
	triples := num("3B")
	hr := num("HR")
	walk := num("BB") + num("HBP")

	singles := h - doubles - triples - hr
	outs := pa - (h + walk)

	dist := sim.Distribution{
		sim.Single:  singles,
		sim.Double:  doubles,
		sim.Triple:  triples,
		sim.HomeRun: hr,
		sim.Walk:    walk,
		sim.Out:     outs,
	}
	if err := dist.Validate(); err != nil {
		return TeamRow{}, false
	}

	total := singles + doubles + triples + hr + walk + outs
	for o, w := range dist {
		dist[o] = w / total
	}

	team := byName["Tm"]
	if team == "" {
		team = byName["Team"]
	}
	if team == "" {
		team = cells[0]
	}
	return TeamRow{Team: strings.TrimSpace(team), Probs: dist}, true
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// headerCells returns the th texts of the table's thead, or of the first
// row when no thead is present.
func headerCells(table *html.Node) []string {
	scope := table
	if thead := findFirst(table, "thead"); thead != nil {
		scope = thead
	}
	var headers []string
	for _, th := range findAll(scope, "th") {
		headers = append(headers, strings.TrimSpace(text(th)))
	}
	return headers
}

func cellTexts(tr *html.Node, tag string) []string {
	var out []string
	for _, td := range findAll(tr, tag) {
		out = append(out, strings.TrimSpace(text(td)))
	}
	return out
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(text(c))
	}
	return b.String()
}
