package store

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/roadwatch/trafficdash/internal/monitoring"
	"github.com/roadwatch/trafficdash/internal/timeutil"
)

// History records snapshot ingests in SQLite so the admin surface can show
// when data last arrived and from where.
type History struct {
	*sql.DB
	clock timeutil.Clock
}

// Ingest is one recorded snapshot merge.
type Ingest struct {
	ID        string    `json:"id"`
	Dataset   string    `json:"dataset"`
	Added     int       `json:"added"`
	Updated   int       `json:"updated"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// OpenHistory opens (or creates) the ingest-history database at path and
// brings its schema up to date.
func OpenHistory(path string, clock timeutil.Clock) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	h := &History{DB: db, clock: clock}
	if err := h.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

// RecordIngest stores one merge result. Source identifies who delivered the
// snapshot (an uploader address or "poller").
func (h *History) RecordIngest(ds Dataset, added, updated int, source string) (string, error) {
	id := uuid.NewString()
	_, err := h.Exec(
		"INSERT INTO ingests (id, dataset, added, updated, source, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, string(ds), added, updated, source, h.clock.Now().Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record ingest: %w", err)
	}
	return id, nil
}

// RecentIngests returns the newest ingests, most recent first.
func (h *History) RecentIngests(limit int) ([]Ingest, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.Query(
		"SELECT id, dataset, added, updated, source, created_at FROM ingests ORDER BY created_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingests: %w", err)
	}
	defer rows.Close()

	var ingests []Ingest
	for rows.Next() {
		var in Ingest
		var createdAt int64
		if err := rows.Scan(&in.ID, &in.Dataset, &in.Added, &in.Updated, &in.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingest: %w", err)
		}
		in.CreatedAt = time.Unix(createdAt, 0).UTC()
		ingests = append(ingests, in)
	}
	return ingests, rows.Err()
}

// AttachAdminRoutes mounts the history admin endpoints on mux: a backup
// download that snapshots the live database with VACUUM INTO and streams it
// gzip-compressed.
func (h *History) AttachAdminRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/admin/history/backup", func(w http.ResponseWriter, r *http.Request) {
		backupPath := fmt.Sprintf("history-backup-%d.db", h.clock.Now().Unix())
		if _, err := h.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}
		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				monitoring.Logf("failed to remove backup file: %v", err)
			}
		}()

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.gz", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()
		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			monitoring.Logf("failed to stream backup: %v", err)
		}
	})
}
