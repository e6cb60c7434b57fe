// Package backup writes JSON snapshots of the order book and restores them.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/galazzia/storefront-api/models"
)

const (
	filePrefix    = "orders_"
	fileExt       = ".json"
	timestampForm = "2006-01-02_15-04-05"
	version       = 1
)

type Source interface {
	All(ctx context.Context) ([]models.Order, error)
}

type Snapshot struct {
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	Orders    []models.Order `json:"orders"`
}

func Take(ctx context.Context, src Source) (*Snapshot, error) {
	orders, err := src.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return &Snapshot{Version: version, CreatedAt: time.Now().UTC(), Orders: orders}, nil
}

// Decode reads a snapshot. A bare JSON array of orders is accepted too.
func Decode(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty backup")
	}

	if data[0] == '[' {
		var orders []models.Order
		if err := json.Unmarshal(data, &orders); err != nil {
			return nil, fmt.Errorf("decode orders: %w", err)
		}
		return &Snapshot{Version: version, Orders: orders}, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	return &snap, nil
}

// WriteFile stores snap in dir and returns the file path.
func WriteFile(dir string, snap *Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filePrefix+snap.CreatedAt.Format(timestampForm)+fileExt)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", err
	}
	return path, os.Rename(tmp, path)
}

// CleanupOld removes snapshot files in dir modified before now-retention.
func CleanupOld(dir string, retention time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(dir, name)
			if err := os.Remove(path); err != nil {
				log.Printf("❌ Failed to remove old backup %s: %v", path, err)
				continue
			}
			log.Printf("🗑️ Removed old backup: %s", path)
			removed++
		}
	}
	return removed, nil
}

// NextRun returns the next occurrence of hour:min strictly after now.
func NextRun(now time.Time, hour, min int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Scheduler takes a snapshot every day at Hour:Minute and prunes old files.
// Prune, when set, runs after each snapshot for other housekeeping.
type Scheduler struct {
	Source    Source
	Dir       string
	Retention time.Duration
	Hour      int
	Minute    int
	Prune     func(ctx context.Context) error
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := NextRun(time.Now(), s.Hour, s.Minute)
		log.Printf("⏳ Next order backup scheduled at: %s", next.Format("2006-01-02 15:04:05"))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Println("🛑 Backup scheduler stopped")
			return
		case <-timer.C:
		}

		s.RunOnce(ctx)
	}
}

// RunOnce takes one snapshot and cleans up. Errors are logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	snap, err := Take(ctx, s.Source)
	if err != nil {
		log.Printf("❌ Failed to back up orders: %v", err)
	} else if path, err := WriteFile(s.Dir, snap); err != nil {
		log.Printf("❌ Failed to write order backup: %v", err)
	} else {
		log.Printf("✅ %d orders backed up to %s", len(snap.Orders), path)
	}

	if _, err := CleanupOld(s.Dir, s.Retention, time.Now()); err != nil {
		log.Printf("❌ Failed to read backup directory: %v", err)
	}

	if s.Prune != nil {
		if err := s.Prune(ctx); err != nil {
			log.Printf("❌ Housekeeping failed: %v", err)
		}
	}
}
