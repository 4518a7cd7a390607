package source

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"item-mirror/core/jsonfs"

	"go.uber.org/zap"
)

const (
	ItemsDir    = "items"
	IconsDir    = "icons"
	ListingFile = "listing.json"
)

// ExtractReport summarises one extraction.
type ExtractReport struct {
	Items int
	Icons int
	// Listing is set when listing.json was present.
	Listing bool
}

// Extractor materialises archive entries into the raw tree.
type Extractor struct {
	cfg    Config
	logger *zap.Logger
}

// NewExtractor creates an extractor for cfg's archive layout.
func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract replaces raw/items, raw/icons and raw/listing.json with the archive
// content. Other files under rawRoot, such as the snapshot file, are kept.
func (e *Extractor) Extract(archive []byte, rawRoot string) (*ExtractReport, error) {
	// Insecure names still get a reader; SafeJoin rejects them per entry.
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	for _, stale := range []string{ItemsDir, IconsDir, ListingFile} {
		if err := jsonfs.RemoveAll(filepath.Join(rawRoot, stale)); err != nil {
			return nil, err
		}
	}

	root := e.cfg.ArchiveRoot()
	report := &ExtractReport{}
	for _, f := range zr.File {
		rel, kind, ok := mapEntry(root, f.Name)
		if !ok {
			continue
		}
		dest, err := jsonfs.SafeJoin(rawRoot, rel)
		if err != nil {
			return report, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return report, fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return report, fmt.Errorf("failed to create parent directory: %w", err)
		}
		if err := extractFile(f, dest); err != nil {
			return report, fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}

		switch kind {
		case ItemsDir:
			report.Items++
		case IconsDir:
			report.Icons++
		case ListingFile:
			report.Listing = true
		}
	}

	e.logger.Info("Archive extracted",
		zap.Int("items", report.Items),
		zap.Int("icons", report.Icons),
		zap.Bool("listing", report.Listing))
	return report, nil
}

// mapEntry maps an archive entry name to its path under the raw root.
func mapEntry(root, name string) (rel, kind string, ok bool) {
	if !strings.HasPrefix(name, root) {
		return "", "", false
	}
	rest := strings.TrimPrefix(name, root)
	switch {
	case rest == ListingFile:
		return ListingFile, ListingFile, true
	case strings.HasPrefix(rest, ItemsDir+"/") && rest != ItemsDir+"/":
		return rest, ItemsDir, true
	case strings.HasPrefix(rest, IconsDir+"/") && rest != IconsDir+"/":
		return rest, IconsDir, true
	default:
		return "", "", false
	}
}

func extractFile(file *zip.File, destPath string) (err error) {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	_, err = io.Copy(destFile, rc)
	return err
}

// CopyIcons replaces outRoot/icons with a copy of rawRoot/icons. A missing
// source is logged and skipped.
func CopyIcons(rawRoot, outRoot string, logger *zap.Logger) error {
	src := filepath.Join(rawRoot, IconsDir)
	dst := filepath.Join(outRoot, IconsDir)

	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		logger.Info("No icons to copy", zap.String("src", src))
		return nil
	}
	if err := jsonfs.RemoveAll(dst); err != nil {
		return err
	}
	if err := jsonfs.CopyDir(src, dst); err != nil {
		return fmt.Errorf("copy icons: %w", err)
	}
	logger.Info("Icons copied", zap.String("dst", dst))
	return nil
}
