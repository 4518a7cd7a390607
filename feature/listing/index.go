package listing

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"item-mirror/core/errs"
	"item-mirror/core/jsonfs"

	"go.uber.org/zap"
)

// IndexFile is the upstream listing index at the root of the output tree.
const IndexFile = "listing.json"

// NormalizeIndex flattens each index entry's name to its per-locale lines and
// drops the bind status. A missing index is logged and skipped.
func (a *Aggregator) NormalizeIndex(outRoot string) (int, error) {
	indexPath := filepath.Join(outRoot, IndexFile)

	data, err := os.ReadFile(indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		a.logger.Warn("listing.json not found, skipping", zap.String("path", indexPath))
		return 0, nil
	}
	if err != nil {
		return 0, &errs.ParseError{Path: indexPath, Err: err}
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return 0, &errs.ParseError{Path: indexPath, Err: err}
	}

	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if raw, ok := entry["name"]; ok {
			var name struct {
				Lines json.RawMessage `json:"lines"`
			}
			if json.Unmarshal(raw, &name) == nil && len(name.Lines) > 0 && string(name.Lines) != "null" {
				entry["name"] = name.Lines
			}
		}
		delete(entry, "status")
	}

	if err := jsonfs.Write(indexPath, entries); err != nil {
		return 0, err
	}
	a.logger.Info("listing.json processed", zap.Int("entries", len(entries)))
	return len(entries), nil
}
