package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"item-mirror/core/jsonfs"

	"go.uber.org/zap"
)

// Dir is the folder under the output root receiving bundle documents.
const Dir = "listing"

// Collision records a map-bundle key written more than once.
type Collision struct {
	Bundle string
	Key    string
	Folder string
}

// Report summarises one aggregation.
type Report struct {
	// Entries counts documents per bundle.
	Entries    map[string]int
	Collisions []Collision
	// Skipped lists documents that could not be parsed.
	Skipped []string
}

// Aggregator builds bundle documents.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate writes one document per bundle in opts.Groups. Unparseable
// documents are skipped; write failures are returned after every bundle
// has been attempted.
func (a *Aggregator) Aggregate(outRoot string, opts Options) (*Report, error) {
	report := &Report{Entries: make(map[string]int)}
	ignored := normalizeSet(opts.Ignored)
	arrays := normalizeSet(opts.ArrayBundles)

	names := make([]string, 0, len(opts.Groups))
	for name := range opts.Groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var writeErrs []error
	for _, name := range names {
		folders := opts.Groups[name]
		_, isArray := arrays[name]

		var doc any
		if isArray {
			entries := make([]json.RawMessage, 0)
			a.collect(outRoot, folders, ignored, report, func(_, _ string, data json.RawMessage) {
				entries = append(entries, data)
			})
			report.Entries[name] = len(entries)
			doc = entries
		} else {
			entries := make(map[string]json.RawMessage)
			a.collect(outRoot, folders, ignored, report, func(folder, file string, data json.RawMessage) {
				key := jsonfs.Stem(file)
				if _, exists := entries[key]; exists {
					a.logger.Warn("Key collision",
						zap.String("key", key),
						zap.String("bundle", name+jsonfs.Ext),
						zap.String("folder", folder))
					report.Collisions = append(report.Collisions, Collision{Bundle: name, Key: key, Folder: folder})
				}
				entries[key] = data
			})
			report.Entries[name] = len(entries)
			doc = entries
		}

		outFile := filepath.Join(outRoot, Dir, name+jsonfs.Ext)
		if err := jsonfs.Write(outFile, doc); err != nil {
			a.logger.Error("Failed to write bundle", zap.String("bundle", name), zap.Error(err))
			writeErrs = append(writeErrs, err)
			continue
		}
		a.logger.Info("Bundle written",
			zap.String("bundle", name+jsonfs.Ext),
			zap.Strings("folders", folders),
			zap.Int("entries", report.Entries[name]))
	}

	return report, errors.Join(writeErrs...)
}

// collect walks each folder in order and hands every parseable document to add.
func (a *Aggregator) collect(outRoot string, folders []string, ignored map[string]struct{}, report *Report, add func(folder, file string, data json.RawMessage)) {
	for _, folder := range folders {
		if isIgnored(normalize(folder), ignored) {
			continue
		}
		src := filepath.Join(outRoot, filepath.FromSlash(folder))
		err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			rel, relErr := filepath.Rel(outRoot, p)
			if relErr != nil {
				return relErr
			}
			if d.IsDir() {
				if isIgnored(normalize(rel), ignored) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), jsonfs.Ext) || isIgnored(normalize(rel), ignored) {
				return nil
			}

			data, readErr := os.ReadFile(p)
			if readErr == nil && !json.Valid(data) {
				readErr = fmt.Errorf("invalid JSON")
			}
			if readErr != nil {
				a.logger.Warn("Failed to parse document", zap.String("file", p), zap.Error(readErr))
				report.Skipped = append(report.Skipped, p)
				return nil
			}
			add(folder, p, json.RawMessage(data))
			return nil
		})
		if err != nil {
			a.logger.Warn("Failed to walk folder", zap.String("folder", folder), zap.Error(err))
		}
	}
}

func normalize(p string) string {
	return strings.Trim(path.Clean(filepath.ToSlash(p)), "/")
}

func normalizeSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[normalize(v)] = struct{}{}
	}
	return set
}

// isIgnored reports whether rel equals or lies below an ignored folder.
func isIgnored(rel string, ignored map[string]struct{}) bool {
	for p := rel; p != "" && p != "."; p = path.Dir(p) {
		if _, ok := ignored[p]; ok {
			return true
		}
		if !strings.Contains(p, "/") {
			break
		}
	}
	return false
}
