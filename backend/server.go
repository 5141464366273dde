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
	"context"
	"crypto/tls"
	_ "embed"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c2FmZQ/storage"

	"github.com/ttbt-io/dugout/backend/mlbstats"
)

//go:embed index.html
var indexHTML []byte

// Options represent server options.
type Options struct {
	Addr        string
	DataDir     string
	Cert        *tls.Certificate
	Config      Config
	Storage     *storage.Storage
	BatchStore  *BatchStore
	Provider    *mlbstats.Provider
	Listener    net.Listener
	UseMockAuth bool
	Debug       bool

	// Auth Options
	AuthCookieName string
	AuthJWKSURL    string
}

// Server represents the running server instance.
type Server struct {
	httpServer *http.Server
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// StartServer starts the web server and registers the API handlers.
func StartServer(opts Options) (*Server, error) {
	handler := NewServerHandler(opts)

	httpServer := &http.Server{
		Addr:    opts.Addr,
		Handler: handler,
	}
	if opts.Cert != nil {
		httpServer.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{*opts.Cert},
		}
	}

	go func() {
		var err error
		if opts.Listener != nil {
			if httpServer.TLSConfig != nil {
				log.Printf("Starting HTTPS server on provided listener %s...", opts.Listener.Addr())
				err = httpServer.ServeTLS(opts.Listener, "", "")
			} else {
				log.Printf("Starting HTTP server on provided listener %s...", opts.Listener.Addr())
				err = httpServer.Serve(opts.Listener)
			}
		} else {
			log.Printf("Server starting on port %s...\n", opts.Addr)
			if opts.Cert != nil {
				err = httpServer.ListenAndServeTLS("", "")
			} else {
				err = httpServer.ListenAndServe()
			}
		}
		if err != nil && !errors.Is(err, net.ErrClosed) && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return &Server{httpServer: httpServer}, nil
}

// NewServerHandler creates and configures the HTTP handler for the server.
func NewServerHandler(opts Options) http.Handler {
	if opts.DataDir == "" {
		opts.DataDir = "data"
	}
	if opts.Config.MaxGames == 0 {
		opts.Config = DefaultConfig()
	}
	if opts.Storage == nil {
		opts.Storage = storage.New(opts.DataDir, nil)
	}
	store := opts.BatchStore
	if store == nil {
		store = NewBatchStore(opts.DataDir, opts.Storage)
	}
	provider := opts.Provider
	if provider == nil {
		provider = mlbstats.NewProvider(opts.Config.StatsURL)
	}

	simulator := &Simulator{
		Config:   opts.Config,
		Provider: provider,
		Store:    store,
	}

	debugf := func(string, ...any) {}
	if opts.Debug {
		debugf = func(f string, a ...any) {
			log.Printf("[DEBUG BACKEND] "+f, a...)
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" && r.URL.Path != "/index.html" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(indexHTML)
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"version": CurrentAppVersion,
		})
	})

	mux.HandleFunc("/api/simulate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var req SimulateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
			return
		}
		userID := getUserID(r)
		debugf("simulate request from %s: %d games", maskEmail(userID), req.Games)

		rec, err := simulator.Run(r.Context(), req, userID, nil)
		if err != nil {
			httpError(w, err.Error(), simulateErrorStatus(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(simulateResponse(rec))
	})

	mux.HandleFunc("/api/simulate/ws", func(w http.ResponseWriter, r *http.Request) {
		serveSimulateWS(simulator, w, r)
	})

	mux.HandleFunc("/api/batches", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		limit, offset := parsePagination(r)
		metas, total, err := store.ListBatches(limit, offset)
		if err != nil {
			httpError(w, "failed to list batches", http.StatusInternalServerError)
			return
		}
		if metas == nil {
			metas = []BatchMetadata{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"batches": metas,
			"total":   total,
		})
	})

	mux.HandleFunc("/api/batches/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/batches/")
		id, sub, _ := strings.Cut(rest, "/")
		if !isValidUUID(id) {
			httpError(w, "invalid batch ID", http.StatusBadRequest)
			return
		}

		switch {
		case sub == "" && r.Method == http.MethodGet:
			data, err := store.LoadBatchAsJSON(id)
			if err != nil {
				batchLoadError(w, err)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(data)

		case sub == "" && r.Method == http.MethodDelete:
			meta, err := store.LoadMetadata(id)
			if err != nil {
				batchLoadError(w, err)
				return
			}
			if !canDeleteBatch(getUserID(r), meta) {
				httpError(w, "forbidden", http.StatusForbidden)
				return
			}
			if err := store.DeleteBatch(id, time.Now().UnixNano()); err != nil {
				batchLoadError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		case sub == "csv" && r.Method == http.MethodGet:
			rec, err := store.LoadBatch(id)
			if err != nil {
				batchLoadError(w, err)
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", "attachment; filename="+id+".csv")
			if err := WriteGameLogCSV(w, rec.Results); err != nil {
				log.Printf("Error writing game log CSV for %s: %v", id, err)
			}

		case sub == "summary.csv" && r.Method == http.MethodGet:
			rec, err := store.LoadBatch(id)
			if err != nil {
				batchLoadError(w, err)
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", "attachment; filename="+id+"-summary.csv")
			if err := WriteSummaryCSV(w, rec.TeamSummary, rec.PlayerSummary); err != nil {
				log.Printf("Error writing summary CSV for %s: %v", id, err)
			}

		default:
			http.Error(w, "Not Found", http.StatusNotFound)
		}
	})

	handler := http.Handler(mux)
	if opts.UseMockAuth {
		handler = mockAuthMiddleware(handler)
	} else {
		handler = jwtAuthMiddleware(opts, handler)
	}
	handler = loggingMiddleware(handler, opts.Debug)
	handler = securityMiddleware(handler)
	return handler
}

// simulateResponse is the body returned by POST /api/simulate.
func simulateResponse(rec *BatchRecord) map[string]any {
	return map[string]any{
		"id":           rec.ID,
		"seed":         rec.Seed,
		"source":       rec.Source,
		"team_summary": rec.TeamSummary,
		"players":      rec.PlayerSummary,
		"games":        len(rec.Results),
		"metrics":      rec.Metrics,
	}
}

func simulateErrorStatus(err error) int {
	// Validation failures are the caller's fault; anything else
	// (fetch failures, storage) is on us.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "must be"), strings.Contains(msg, "invalid"),
		strings.Contains(msg, "not found"), strings.Contains(msg, "out of range"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func batchLoadError(w http.ResponseWriter, err error) {
	if os.IsNotExist(err) {
		httpError(w, "batch not found", http.StatusNotFound)
		return
	}
	httpError(w, "failed to load batch", http.StatusInternalServerError)
}

func httpError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func parsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil {
			offset = val
		}
	}
	if limit < 1 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// loggingMiddleware logs each request with its duration.
func loggingMiddleware(next http.Handler, debug bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if debug {
			log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
		}
	})
}

// securityMiddleware adds HTTP security headers to responses.
func securityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
