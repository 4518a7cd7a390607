package merge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"item-mirror/core/item"
	"item-mirror/core/jsonfs"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// VariantsDir is the directory name holding variant records next to their canonical file.
const VariantsDir = "_variants"

// FileFailure records a file the engine could not process.
type FileFailure struct {
	Path string
	Err  error
}

// Report summarises one batch run.
type Report struct {
	// Files counts canonical files visited.
	Files int
	// Merged counts files whose stat elements were rewritten.
	Merged int
	// Copied counts files written through unchanged.
	Copied int
	// Variants counts variant records folded in.
	Variants int
	// SkippedVariants counts unreadable variant records.
	SkippedVariants int
	Failures        []FileFailure
}

// Engine runs the merge over a whole item tree.
type Engine struct {
	logger  *zap.Logger
	workers int
}

// NewEngine creates an engine processing up to workers files at once.
func NewEngine(logger *zap.Logger, workers int) *Engine {
	if workers <= 0 {
		workers = 1
	}
	return &Engine{logger: logger, workers: workers}
}

// Run merges every canonical file under rawRoot into outRoot.
// It only returns an error when the tree itself cannot be walked.
func (e *Engine) Run(ctx context.Context, rawRoot, outRoot string) (*Report, error) {
	files, err := jsonfs.Scan(rawRoot)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Found JSON files", zap.Int("count", len(files)))

	report := &Report{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for _, f := range files {
		if isVariantPath(rawRoot, f) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := e.processFile(rawRoot, outRoot, f)

			mu.Lock()
			defer mu.Unlock()
			report.Files++
			report.Variants += outcome.variants
			report.SkippedVariants += outcome.skippedVariants
			if err != nil {
				e.logger.Error("Error processing file", zap.String("file", f), zap.Error(err))
				report.Failures = append(report.Failures, FileFailure{Path: f, Err: err})
				return nil
			}
			if outcome.merged {
				report.Merged++
			} else {
				report.Copied++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	e.logger.Info("Merge done",
		zap.Int("files", report.Files),
		zap.Int("merged", report.Merged),
		zap.Int("failed", len(report.Failures)))
	return report, nil
}

type fileOutcome struct {
	merged          bool
	variants        int
	skippedVariants int
}

func (e *Engine) processFile(rawRoot, outRoot, path string) (fileOutcome, error) {
	var outcome fileOutcome

	rel, err := filepath.Rel(rawRoot, path)
	if err != nil {
		return outcome, fmt.Errorf("relative path: %w", err)
	}
	outPath, err := jsonfs.SafeJoin(outRoot, rel)
	if err != nil {
		return outcome, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return outcome, fmt.Errorf("read canonical: %w", err)
	}

	// Non-object documents (the listing index) are not items.
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return outcome, jsonfs.WriteBytes(outPath, data)
	}

	canonical, err := item.Decode(data)
	if err != nil {
		return outcome, fmt.Errorf("decode canonical %s: %w", path, err)
	}

	var variants []item.Item
	if MatchKey(canonical.Category) != "" {
		variants, outcome.skippedVariants = e.loadVariants(path)
		outcome.variants = len(variants)
	}

	res := Merge(canonical, variants)
	if !res.Merged {
		return outcome, jsonfs.WriteBytes(outPath, data)
	}
	doc, err := Patch(data, res)
	if err != nil {
		return outcome, fmt.Errorf("patch canonical %s: %w", path, err)
	}
	outcome.merged = true
	return outcome, jsonfs.Write(outPath, doc)
}

// loadVariants reads every record under <dir>/_variants/<stem>/.
func (e *Engine) loadVariants(canonicalPath string) ([]item.Item, int) {
	dir := filepath.Join(filepath.Dir(canonicalPath), VariantsDir, jsonfs.Stem(canonicalPath))
	files, err := jsonfs.Scan(dir)
	if err != nil {
		e.logger.Warn("Failed to scan variants", zap.String("dir", dir), zap.Error(err))
		return nil, 0
	}

	var variants []item.Item
	skipped := 0
	for _, vf := range files {
		var v item.Item
		if err := jsonfs.Read(vf, &v); err != nil {
			e.logger.Warn("Failed to read variant", zap.String("file", vf), zap.Error(err))
			skipped++
			continue
		}
		variants = append(variants, v)
	}
	return variants, skipped
}

func isVariantPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == VariantsDir {
			return true
		}
	}
	return false
}
