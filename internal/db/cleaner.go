package db

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// FilenameLister reports every filename still referenced by a media or
// account record.
type FilenameLister interface {
	Filenames(ctx context.Context) (map[string]bool, error)
}

// StartOrphanCleaner sweeps the uploads directory with the given
// interval and removes files no record references anymore. Files
// younger than minAge are skipped so in-flight uploads survive the
// sweep.
func StartOrphanCleaner(
	ctx context.Context,
	uploadsDir string,
	lister FilenameLister,
	interval time.Duration,
	minAge time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				referenced, err := lister.Filenames(ctx)
				if err != nil {
					log.Error("failed to list referenced filenames", zap.Error(err))
					continue
				}

				entries, err := os.ReadDir(uploadsDir)
				if err != nil {
					log.Error("failed to read uploads dir", zap.Error(err))
					continue
				}

				removed := 0
				cutoff := time.Now().Add(-minAge)
				for _, entry := range entries {
					if entry.IsDir() || referenced[entry.Name()] {
						continue
					}
					info, err := entry.Info()
					if err != nil || info.ModTime().After(cutoff) {
						continue
					}
					if err := os.Remove(filepath.Join(uploadsDir, entry.Name())); err != nil {
						log.Error("failed to remove orphan file", zap.String("file", entry.Name()), zap.Error(err))
						continue
					}
					removed++
				}
				if removed > 0 {
					log.Info("cleaned orphan upload files", zap.Int("removed", removed))
				}
			}
		}
	}()
}
