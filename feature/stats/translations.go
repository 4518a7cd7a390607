package stats

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"item-mirror/core/item"
	"item-mirror/core/jsonfs"

	"go.uber.org/zap"
)

// Table maps a stat translation key to its per-locale lines.
type Table map[string]map[string]string

// LoadTable reads the translation table at path. A missing or unreadable
// table is logged and yields an empty table.
func LoadTable(path string, logger *zap.Logger) Table {
	table := Table{}
	if path == "" {
		return table
	}
	if err := jsonfs.Read(path, &table); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("Translations file not found", zap.String("path", path))
		} else {
			logger.Warn("Failed to load translations file", zap.String("path", path), zap.Error(err))
		}
		return Table{}
	}
	logger.Info("Translations loaded", zap.Int("keys", len(table)))
	return table
}

// SaveTable writes the table to path.
func SaveTable(path string, table Table) error {
	return jsonfs.Write(path, table)
}

// BuildTable scans every document under root for range elements named by a
// translation and collects their lines. Documents may be single items or
// arrays of items. Later documents overwrite earlier lines per locale.
func BuildTable(root string, logger *zap.Logger) (Table, error) {
	files, err := jsonfs.Scan(root)
	if err != nil {
		return nil, err
	}
	logger.Info("Found JSON files", zap.Int("count", len(files)))

	table := Table{}
	for _, f := range files {
		items, err := readItems(f)
		if err != nil {
			logger.Warn("Failed to process file", zap.String("file", f), zap.Error(err))
			continue
		}
		for _, it := range items {
			collectLines(table, it)
		}
	}
	logger.Info("Keys collected", zap.Int("keys", len(table)))
	return table, nil
}

func readItems(path string) ([]item.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var items []item.Item
		if err := jsonfs.Read(path, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	it, err := item.Decode(trimmed)
	if err != nil {
		return nil, err
	}
	return []item.Item{it}, nil
}

func collectLines(table Table, it item.Item) {
	for _, b := range it.InfoBlocks {
		for _, el := range item.BlockElements(b) {
			r, ok := el.(item.RangeElement)
			if !ok {
				continue
			}
			msg, ok := r.Name.(item.TranslationMessage)
			if !ok || msg.Key == "" || msg.Lines == nil {
				continue
			}
			lines, ok := table[msg.Key]
			if !ok {
				lines = map[string]string{}
				table[msg.Key] = lines
			}
			for lang, text := range msg.Lines {
				lines[lang] = text
			}
		}
	}
}
