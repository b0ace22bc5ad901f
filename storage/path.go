package storage

import (
	"fmt"
	"path/filepath"
	"time"
)

// storeTimestampFormat matches the run timestamps embedded in store names.
const storeTimestampFormat = "20060102150405"

// StorePath derives the on-disk location for a run's embedding store:
// a directory named <prefix>_embeddings_<timestamp> under baseDir.
// An empty prefix falls back to "default".
func StorePath(baseDir, prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "default"
	}
	name := fmt.Sprintf("%s_embeddings_%s", prefix, now.Format(storeTimestampFormat))
	return filepath.Join(baseDir, name)
}
