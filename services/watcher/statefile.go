package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"stocksnoop/lib/scrapers/shopify"
)

// ProductRecord is the persisted view of one product between runs.
type ProductRecord struct {
	Handle      string         `json:"handle"`
	Status      shopify.Status `json:"status"`
	Url         string         `json:"url"`
	LastChecked time.Time      `json:"last_checked"`
}

// LoadState reads the saved state file. A missing, unreadable or corrupt
// file means a fresh baseline: it yields an empty map, never an error.
func LoadState(ctx context.Context, path string) map[string]ProductRecord {
	contents, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.WarnContext(
				ctx, "failed to read state file, starting fresh",
				"path", path,
				"err", err,
			)
		}
		return map[string]ProductRecord{}
	}

	state := map[string]ProductRecord{}
	err = json.Unmarshal(contents, &state)
	if err != nil {
		slog.WarnContext(
			ctx, "failed to parse state file, starting fresh",
			"path", path,
			"err", err,
		)
		return map[string]ProductRecord{}
	}
	return state
}

// SaveState replaces the state file with the given records. The write goes
// to a temp file in the same directory which is then renamed over the
// target, so a crash never leaves a half-written state behind.
func SaveState(path string, state map[string]ProductRecord) error {
	contents, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
