package jsonfs

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"item-mirror/core/errs"
)

// Ext is the document extension every stage works with.
const Ext = ".json"

// Scan returns every .json file below dir in lexical walk order.
// A missing dir yields an empty result.
func Scan(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return fs.SkipDir
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return files, nil
}

// Stem returns the file name without directory and .json extension.
func Stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Ext)
}

// Read decodes the JSON document at path into v.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &errs.ParseError{Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &errs.ParseError{Path: path, Err: err}
	}
	return nil
}

// Marshal encodes v with two-space indentation and without HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write encodes v and writes it to path, creating parent directories.
func Write(path string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteBytes(path, data)
}

// WriteBytes writes raw content to path, creating parent directories.
func WriteBytes(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &errs.PersistenceError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &errs.PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// SafeJoin joins rel onto root and verifies the result stays strictly inside root.
// Leading separators on rel are stripped first.
func SafeJoin(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}
	rel = strings.TrimLeft(rel, `/\`)
	out := filepath.Join(absRoot, rel)
	if out == absRoot || !strings.HasPrefix(out, absRoot+string(filepath.Separator)) {
		return "", &errs.PathSafetyError{Root: absRoot, Path: rel}
	}
	return out, nil
}

// HashBytes returns the hex sha256 of data.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RemoveAll deletes path if it exists.
func RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// CopyDir recursively copies regular files from src into dst.
func CopyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
