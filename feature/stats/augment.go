package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"item-mirror/core/errs"
	"item-mirror/core/item"
	"item-mirror/core/jsonfs"
	"item-mirror/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes one augmentation pass.
type Options struct {
	// Table supplies lines for stat keys, taking precedence over inline names.
	Table Table
	// ReplaceInjected removes every addStat block already present before
	// appending. Upstream items carry no addStat blocks of their own; the
	// type is only ever written by this augmenter.
	ReplaceInjected bool
}

// FileFailure records a file that could not be updated.
type FileFailure struct {
	Path string
	Err  error
}

// Report summarises one augmentation pass.
type Report struct {
	// Fetched counts records returned by the source.
	Fetched int
	// Matched counts records injected into at least one file.
	Matched int
	// Unmatched lists identifiers of records with stats but no local file.
	Unmatched []string
	// Updated counts files written.
	Updated  int
	Failures []FileFailure
	// Skipped is set when the fetch failed and nothing was touched.
	Skipped bool
}

// Augmenter injects external stats into item files.
type Augmenter struct {
	source  Source
	logger  *zap.Logger
	workers int
}

// NewAugmenter creates an augmenter writing up to workers files at once.
func NewAugmenter(source Source, logger *zap.Logger, workers int) *Augmenter {
	if workers <= 0 {
		workers = 1
	}
	return &Augmenter{source: source, logger: logger, workers: workers}
}

const (
	blocksField       = "infoBlocks"
	legacyBlocksField = "info_blocks"
)

// localFile is an item document kept as raw members, so a rewrite only
// touches its block array.
type localFile struct {
	path      string
	doc       *jsonfs.Object
	blocksKey string
	blocks    []json.RawMessage
	injected  bool
}

func loadLocal(path string) (*localFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.ParseError{Path: path, Err: err}
	}
	doc, err := jsonfs.ParseObject(data)
	if err != nil {
		return nil, &errs.ParseError{Path: path, Err: err}
	}

	lf := &localFile{path: path, doc: doc, blocksKey: blocksField}
	if _, ok := doc.Get(blocksField); !ok {
		if _, ok := doc.Get(legacyBlocksField); ok {
			lf.blocksKey = legacyBlocksField
		}
	}
	if raw, ok := doc.Get(lf.blocksKey); ok {
		if err := json.Unmarshal(raw, &lf.blocks); err != nil {
			return nil, &errs.ParseError{Path: path, Err: fmt.Errorf("%s: %w", lf.blocksKey, err)}
		}
	}
	lf.injected = hasInjected(lf.blocks)
	return lf, nil
}

// write stores blocks followed by add under the file's block key and saves
// the document.
func (lf *localFile) write(blocks []json.RawMessage, add []item.InfoBlock) error {
	out := make([]json.RawMessage, 0, len(blocks)+len(add))
	out = append(out, blocks...)
	for _, b := range add {
		raw, err := jsonfs.Encode(b)
		if err != nil {
			return fmt.Errorf("encode block: %w", err)
		}
		out = append(out, raw)
	}
	if err := lf.doc.SetValue(lf.blocksKey, out); err != nil {
		return err
	}
	return jsonfs.Write(lf.path, lf.doc)
}

// Run augments every item below dir. A failed fetch is logged and reported as
// skipped without error; only context cancellation and an unreadable tree are
// returned as errors.
func (a *Augmenter) Run(ctx context.Context, dir string, opts Options) (*Report, error) {
	report := &Report{}

	records, err := a.source.Fetch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}
		a.logger.Warn("Stat fetch failed, skipping augmentation", zap.Error(err))
		report.Skipped = true
		return report, nil
	}
	report.Fetched = len(records)

	files, err := jsonfs.Scan(dir)
	if err != nil {
		return report, err
	}
	if len(files) == 0 {
		a.logger.Warn("No item files to augment", zap.String("dir", dir))
		return report, nil
	}

	locals, index := a.index(files)
	a.logger.Info("Index keys generated", zap.Int("keys", len(index)), zap.Int("files", len(locals)))

	pending := make(map[string][]item.InfoBlock)
	for _, rec := range records {
		stats := nonEmpty(rec.Stats)
		if len(stats) == 0 {
			a.logger.Debug("No stats for record", zap.String("id", rec.ID))
			continue
		}
		matched := match(rec, index)
		if len(matched) == 0 {
			a.logger.Info("No match for record", zap.String("id", rec.ID), zap.Strings("identifiers", rec.Identifiers()))
			report.Unmatched = append(report.Unmatched, rec.ID)
			continue
		}
		report.Matched++
		block := BuildBlock(stats, opts.Table)
		for _, path := range matched {
			pending[path] = append(pending[path], block)
		}
	}

	targets := make([]string, 0, len(pending))
	for path := range locals {
		if _, ok := pending[path]; ok || (opts.ReplaceInjected && locals[path].injected) {
			targets = append(targets, path)
		}
	}
	sort.Strings(targets)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for _, path := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lf := locals[path]
			blocks := lf.blocks
			if opts.ReplaceInjected {
				blocks = stripInjected(blocks)
			}
			err := lf.write(blocks, pending[path])

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.logger.Warn("Failed to update file", zap.String("file", path), zap.Error(err))
				report.Failures = append(report.Failures, FileFailure{Path: path, Err: err})
				return nil
			}
			report.Updated++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	a.logger.Info("Augmentation done",
		zap.Int("matched", report.Matched),
		zap.Int("updated", report.Updated),
		zap.Int("failed", len(report.Failures)))
	return report, nil
}

// index loads every file and maps each candidate identifier to the files
// exposing it. Only the JSON object shape is required; the item body is not
// validated.
func (a *Augmenter) index(files []string) (map[string]*localFile, map[string][]string) {
	locals := make(map[string]*localFile, len(files))
	index := make(map[string][]string)
	for _, f := range files {
		lf, err := loadLocal(f)
		if err != nil {
			a.logger.Warn("Broken item file", zap.String("file", f), zap.Error(err))
			continue
		}
		locals[f] = lf
		for _, id := range identifiers(lf.doc, f) {
			index[id] = append(index[id], f)
		}
	}
	return locals, index
}

// identifiers returns the non-empty id, custom_id, key and file stem of an item.
func identifiers(doc *jsonfs.Object, path string) []string {
	candidates := []string{memberString(doc, "id"), memberString(doc, "custom_id"), memberString(doc, "key"), jsonfs.Stem(path)}
	seen := make(map[string]struct{}, len(candidates))
	var ids []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		ids = append(ids, c)
	}
	return ids
}

// memberString reads a string or numeric member as text.
func memberString(doc *jsonfs.Object, field string) string {
	raw, ok := doc.Get(field)
	if !ok {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch v.(type) {
	case string, json.Number:
		return utils.ToString(v)
	default:
		return ""
	}
}

// match unions the files matched by any identifier of rec, in sorted order.
func match(rec Record, index map[string][]string) []string {
	set := make(map[string]struct{})
	for _, id := range rec.Identifiers() {
		for _, f := range index[id] {
			set[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func nonEmpty(stats []Stat) []Stat {
	var out []Stat
	for _, s := range stats {
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	return out
}

// BuildBlock builds the addStat block for one record's stats.
func BuildBlock(stats []Stat, table Table) item.AddStatBlock {
	elements := make([]item.InfoElement, 0, len(stats))
	for _, s := range stats {
		elements = append(elements, BuildElement(s, table))
	}
	return item.AddStatBlock{
		Title:    item.TextMessage{Text: ""},
		Elements: elements,
	}
}

// BuildElement builds the range element for one stat. Table lines win; inline
// names only fill locales the table lacks.
func BuildElement(s Stat, table Table) item.RangeElement {
	lines := make(map[string]string)
	if s.Key != "" {
		for lang, text := range table[s.Key] {
			lines[lang] = text
		}
	}
	for lang, text := range s.Name {
		if lines[lang] == "" {
			lines[lang] = text
		}
	}

	f := &item.Formatted{}
	if len(s.Formatted) > 0 {
		f.Value = s.Formatted
	}
	switch s.Polarity {
	case PolarityPositive:
		f.NameColor, f.ValueColor = AccentPositive, AccentPositive
	case PolarityNegative:
		f.NameColor, f.ValueColor = AccentNegative, AccentNegative
	case PolarityNeutral:
	}
	if f.IsEmpty() {
		f = nil
	}

	return item.RangeElement{
		Name:  item.TranslationMessage{Key: s.Key, Args: map[string]any{}, Lines: lines},
		Min:   s.Min,
		Max:   s.Max,
		Style: item.Style{Formatted: f},
	}
}

func blockType(raw json.RawMessage) string {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return ""
	}
	return head.Type
}

func hasInjected(blocks []json.RawMessage) bool {
	for _, b := range blocks {
		if blockType(b) == item.BlockAddStat {
			return true
		}
	}
	return false
}

// stripInjected removes every addStat block. The type only carries injected
// supplemental stats, so nothing upstream is lost.
func stripInjected(blocks []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(blocks))
	for _, b := range blocks {
		if blockType(b) == item.BlockAddStat {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Augment runs the augmenter over the configured category below outRoot.
func (a *Augmenter) Augment(ctx context.Context, outRoot string, cfg Config, opts Options) (*Report, error) {
	dir := filepath.Join(outRoot, filepath.FromSlash(cfg.CategoryDir))
	report, err := a.Run(ctx, dir, opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("Augmentation failed", zap.Error(err))
	}
	return report, err
}
