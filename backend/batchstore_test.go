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
	"testing"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/google/uuid"

	"github.com/ttbt-io/dugout/backend/sim"
)

func testBatchRecord(id string) *BatchRecord {
	return &BatchRecord{
		ID:            id,
		SchemaVersion: CurrentSchemaVersion,
		CreatedAt:     time.Now().UnixNano(),
		OwnerID:       "owner@example.com",
		Seed:          42,
		Games:         2,
		Source:        "template",
		Away:          TeamInfo{Name: "Away Stars", Wins: 1, Losses: 1},
		Home:          TeamInfo{Name: "Home Sox", Wins: 1, Losses: 1},
		Results: []sim.GameResult{
			{Score: [2]int{3, 5}, Winner: sim.Home, Innings: 9, AtBats: 70},
			{Score: [2]int{4, 2}, Winner: sim.Away, Innings: 9, AtBats: 68},
		},
	}
}

func TestBatchStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "batchstore_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	s := storage.New(tempDir, nil)
	store := NewBatchStore(tempDir, s)
	id := uuid.NewString()
	rec := testBatchRecord(id)

	t.Run("SaveRejectsInvalidID", func(t *testing.T) {
		bad := testBatchRecord("not-a-uuid")
		if err := store.SaveBatch(bad); err == nil {
			t.Error("Expected error for invalid batch ID")
		}
	})

	t.Run("SaveAndLoad", func(t *testing.T) {
		if err := store.SaveBatch(rec); err != nil {
			t.Fatalf("SaveBatch failed: %v", err)
		}
		loaded, err := store.LoadBatch(id)
		if err != nil {
			t.Fatalf("LoadBatch failed: %v", err)
		}
		if loaded.Seed != 42 || loaded.Games != 2 {
			t.Errorf("Loaded record mismatch: seed=%d games=%d", loaded.Seed, loaded.Games)
		}
		if len(loaded.Results) != 2 || loaded.Results[0].Winner != sim.Home {
			t.Errorf("Results not preserved: %+v", loaded.Results)
		}
	})

	t.Run("LoadAsJSON", func(t *testing.T) {
		data, err := store.LoadBatchAsJSON(id)
		if err != nil {
			t.Fatalf("LoadBatchAsJSON failed: %v", err)
		}
		var decoded BatchRecord
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Invalid JSON: %v", err)
		}
		if decoded.ID != id {
			t.Errorf("Expected ID %s, got %s", id, decoded.ID)
		}
	})

	t.Run("LoadMetadata", func(t *testing.T) {
		meta, err := store.LoadMetadata(id)
		if err != nil {
			t.Fatalf("LoadMetadata failed: %v", err)
		}
		if meta.Away != "Away Stars" || meta.Home != "Home Sox" {
			t.Errorf("Metadata team names mismatch: %+v", meta)
		}
		if meta.OwnerID != "owner@example.com" {
			t.Errorf("Expected owner, got %q", meta.OwnerID)
		}
	})

	t.Run("LoadMissing", func(t *testing.T) {
		_, err := store.LoadBatch(uuid.NewString())
		if !os.IsNotExist(err) {
			t.Errorf("Expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.DeleteBatch(id, time.Now().UnixNano()); err != nil {
			t.Fatalf("DeleteBatch failed: %v", err)
		}
		if _, err := store.LoadBatch(id); !os.IsNotExist(err) {
			t.Errorf("Expected os.ErrNotExist after delete, got %v", err)
		}
		if _, err := store.LoadMetadata(id); !os.IsNotExist(err) {
			t.Errorf("Expected os.ErrNotExist metadata after delete, got %v", err)
		}
		// Deleting twice reports not-exist.
		if err := store.DeleteBatch(id, time.Now().UnixNano()); !os.IsNotExist(err) {
			t.Errorf("Expected os.ErrNotExist on second delete, got %v", err)
		}
	})
}

func TestBatchStoreList(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "batchstore_list_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	s := storage.New(tempDir, nil)
	store := NewBatchStore(tempDir, s)

	t.Run("EmptyStore", func(t *testing.T) {
		metas, total, err := store.ListBatches(50, 0)
		if err != nil {
			t.Fatalf("ListBatches failed: %v", err)
		}
		if total != 0 || len(metas) != 0 {
			t.Errorf("Expected empty listing, got %d/%d", len(metas), total)
		}
	})

	ids := make([]string, 5)
	for i := range ids {
		ids[i] = uuid.NewString()
		rec := testBatchRecord(ids[i])
		rec.CreatedAt = int64(1000 + i)
		rec.Away.Name = fmt.Sprintf("team-%d", i)
		if err := store.SaveBatch(rec); err != nil {
			t.Fatalf("SaveBatch %d failed: %v", i, err)
		}
	}

	t.Run("NewestFirst", func(t *testing.T) {
		metas, total, err := store.ListBatches(50, 0)
		if err != nil {
			t.Fatalf("ListBatches failed: %v", err)
		}
		if total != 5 || len(metas) != 5 {
			t.Fatalf("Expected 5 batches, got %d/%d", len(metas), total)
		}
		for i := 1; i < len(metas); i++ {
			if metas[i-1].CreatedAt < metas[i].CreatedAt {
				t.Errorf("Listing not sorted newest first at %d", i)
			}
		}
		if metas[0].ID != ids[4] {
			t.Errorf("Expected newest batch first, got %s", metas[0].ID)
		}
	})

	t.Run("Pagination", func(t *testing.T) {
		metas, total, err := store.ListBatches(2, 2)
		if err != nil {
			t.Fatalf("ListBatches failed: %v", err)
		}
		if total != 5 || len(metas) != 2 {
			t.Fatalf("Expected page of 2 with total 5, got %d/%d", len(metas), total)
		}
		if metas[0].ID != ids[2] {
			t.Errorf("Expected third-newest batch, got %s", metas[0].ID)
		}
		// Offset past the end.
		metas, total, err = store.ListBatches(2, 10)
		if err != nil {
			t.Fatalf("ListBatches failed: %v", err)
		}
		if total != 5 || len(metas) != 0 {
			t.Errorf("Expected empty page with total 5, got %d/%d", len(metas), total)
		}
	})

	t.Run("ExcludesDeleted", func(t *testing.T) {
		if err := store.DeleteBatch(ids[4], time.Now().UnixNano()); err != nil {
			t.Fatalf("DeleteBatch failed: %v", err)
		}
		metas, total, err := store.ListBatches(50, 0)
		if err != nil {
			t.Fatalf("ListBatches failed: %v", err)
		}
		if total != 4 || len(metas) != 4 {
			t.Fatalf("Expected 4 batches after delete, got %d/%d", len(metas), total)
		}
		for _, m := range metas {
			if m.ID == ids[4] {
				t.Error("Deleted batch still listed")
			}
		}
	})
}
