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

// Package backend wires the simulation engine to the outside world: the
// HTTP API, the WebSocket progress stream, batch result persistence,
// CSV/JSON export, configuration and authentication.
package backend

const (
	CurrentSchemaVersion = 1
	CurrentAppVersion    = "0.1.0"
)

const (
	// DefaultMaxGames caps the game count of a single request.
	DefaultMaxGames = 100000

	// DefaultGames is used when a request does not specify a count.
	DefaultGames = 100

	// DefaultYear is the season fetched when scraping is requested
	// without an explicit year.
	DefaultYear = 2019
)
