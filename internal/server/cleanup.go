package server

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SweepTemps removes leftover scoped temp dirs (deckgen-*) older than maxAge.
// Normal requests remove their own dirs; this catches dirs orphaned by
// crashes or kills.
func SweepTemps(dir string, maxAge time.Duration) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	now := time.Now()
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "deckgen-") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) >= maxAge {
			path := filepath.Join(dir, e.Name())
			if err := os.RemoveAll(path); err == nil {
				log.Debug().Str("path", path).Msg("removed stale temp dir")
			}
		}
	}
}

// RunTempSweeper sweeps periodically until ctx is canceled.
func RunTempSweeper(ctx context.Context, dir string, maxAge time.Duration) {
	ticker := time.NewTicker(maxAge / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			SweepTemps(dir, maxAge)
		}
	}
}
