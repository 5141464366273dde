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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/c2FmZQ/storage"

	"github.com/ttbt-io/dugout/backend/sim"
)

// TeamInfo describes one side of a stored batch.
type TeamInfo struct {
	Name   string `json:"name,omitempty"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// BatchRecord is a completed simulation batch as stored on disk.
type BatchRecord struct {
	ID            string              `json:"id"`
	SchemaVersion int                 `json:"schemaVersion"`
	CreatedAt     int64               `json:"createdAt"`
	OwnerID       string              `json:"ownerId,omitempty"`
	Seed          int64               `json:"seed"`
	Games         int                 `json:"games"`
	Source        string              `json:"source"` // "template", "custom" or "scrape"
	Year          int                 `json:"year,omitempty"`
	Concentration float64             `json:"concentration,omitempty"`
	Away          TeamInfo            `json:"away"`
	Home          TeamInfo            `json:"home"`
	Results       []sim.GameResult    `json:"results"`
	TeamSummary   []sim.TeamSummary   `json:"team_summary"`
	PlayerSummary []sim.PlayerSummary `json:"players"`
	Metrics       *RunMetrics         `json:"metrics,omitempty"`
}

// BatchMetadata is the sidecar used for listings without loading the
// full (potentially large) result log.
type BatchMetadata struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	Games     int    `json:"games"`
	Source    string `json:"source"`
	Away      string `json:"away,omitempty"`
	Home      string `json:"home,omitempty"`

	// DeletedAt is the timestamp (Unix Nano) when the batch was deleted.
	DeletedAt int64 `json:"deletedAt,omitempty"`
}

func (r *BatchRecord) metadata() BatchMetadata {
	return BatchMetadata{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		Games:     r.Games,
		Source:    r.Source,
		Away:      r.Away.Name,
		Home:      r.Home.Name,
	}
}

// BatchStore manages batch persistence to disk. Records are stored as
// JSON files under batches/, one file plus a metadata sidecar per batch,
// optionally encrypted by the underlying storage.
type BatchStore struct {
	DataDir string
	storage *storage.Storage
	mu      sync.Map // *sync.RWMutex per batch ID
	cache   sync.Map // latest []byte (JSON) per batch ID
}

// NewBatchStore creates a new BatchStore.
func NewBatchStore(dataDir string, s *storage.Storage) *BatchStore {
	return &BatchStore{DataDir: dataDir, storage: s}
}

func (bs *BatchStore) lock(id string) *sync.RWMutex {
	m, _ := bs.mu.LoadOrStore(id, &sync.RWMutex{})
	return m.(*sync.RWMutex)
}

func batchFile(id string) string {
	return filepath.Join("batches", id+".json")
}

func batchMetaFile(id string) string {
	return filepath.Join("batches", id+".meta.json")
}

// SaveBatch saves the batch record and its metadata sidecar atomically.
func (bs *BatchStore) SaveBatch(rec *BatchRecord) error {
	if !isValidUUID(rec.ID) {
		return fmt.Errorf("invalid batch ID %q", rec.ID)
	}
	mutex := bs.lock(rec.ID)
	mutex.Lock()
	defer mutex.Unlock()

	if err := bs.storage.SaveDataFile(batchFile(rec.ID), rec); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	meta := rec.metadata()
	if err := bs.storage.SaveDataFile(batchMetaFile(rec.ID), &meta); err != nil {
		return fmt.Errorf("storage.SaveDataFile (meta): %w", err)
	}

	if jsonBytes, err := json.Marshal(rec); err == nil {
		bs.cache.Store(rec.ID, jsonBytes)
	}
	return nil
}

// LoadBatch loads a batch record by ID. Returns os.ErrNotExist when the
// batch is unknown or tombstoned.
func (bs *BatchStore) LoadBatch(id string) (*BatchRecord, error) {
	mutex := bs.lock(id)
	mutex.RLock()
	defer mutex.RUnlock()

	var rec BatchRecord
	if err := bs.storage.ReadDataFile(batchFile(id), &rec); err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	if rec.ID == "" {
		// Tombstone left by DeleteBatch.
		return nil, os.ErrNotExist
	}
	return &rec, nil
}

// LoadBatchAsJSON returns the raw JSON of a batch, served from the
// in-memory cache when warm.
func (bs *BatchStore) LoadBatchAsJSON(id string) ([]byte, error) {
	if cached, ok := bs.cache.Load(id); ok {
		return cached.([]byte), nil
	}
	rec, err := bs.LoadBatch(id)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	bs.cache.Store(id, data)
	return data, nil
}

// LoadMetadata reads a batch's metadata sidecar.
func (bs *BatchStore) LoadMetadata(id string) (BatchMetadata, error) {
	mutex := bs.lock(id)
	mutex.RLock()
	defer mutex.RUnlock()

	var meta BatchMetadata
	if err := bs.storage.ReadDataFile(batchMetaFile(id), &meta); err != nil {
		return meta, err
	}
	if meta.DeletedAt != 0 {
		return meta, os.ErrNotExist
	}
	return meta, nil
}

// DeleteBatch replaces the record with a tombstone and marks the
// metadata deleted.
func (bs *BatchStore) DeleteBatch(id string, now int64) error {
	mutex := bs.lock(id)
	mutex.Lock()
	defer mutex.Unlock()

	var meta BatchMetadata
	if err := bs.storage.ReadDataFile(batchMetaFile(id), &meta); err != nil {
		return err
	}
	if meta.DeletedAt != 0 {
		return os.ErrNotExist
	}
	meta.DeletedAt = now

	if err := bs.storage.SaveDataFile(batchFile(id), &BatchRecord{}); err != nil {
		return fmt.Errorf("storage.SaveDataFile (tombstone): %w", err)
	}
	if err := bs.storage.SaveDataFile(batchMetaFile(id), &meta); err != nil {
		return fmt.Errorf("storage.SaveDataFile (meta tombstone): %w", err)
	}
	bs.cache.Delete(id)
	return nil
}

// ListBatches scans the metadata sidecars and returns listings sorted by
// creation time, newest first, with limit/offset pagination. Tombstoned
// batches are excluded.
func (bs *BatchStore) ListBatches(limit, offset int) ([]BatchMetadata, int, error) {
	dir := filepath.Join(bs.DataDir, "batches")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, err
	}

	var metas []BatchMetadata
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".meta.json") {
			continue
		}
		id := strings.TrimSuffix(name, ".meta.json")
		meta, err := bs.LoadMetadata(id)
		if err != nil {
			continue
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		if metas[i].CreatedAt != metas[j].CreatedAt {
			return metas[i].CreatedAt > metas[j].CreatedAt
		}
		return metas[i].ID < metas[j].ID
	})

	total := len(metas)
	if offset >= len(metas) {
		return nil, total, nil
	}
	metas = metas[offset:]
	if limit > 0 && len(metas) > limit {
		metas = metas[:limit]
	}
	return metas, total, nil
}
