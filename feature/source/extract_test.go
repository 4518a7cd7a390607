package source_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"item-mirror/core/errs"
	"item-mirror/feature/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractor_Extract(t *testing.T) {
	raw := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(raw, "items", "stale"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(raw, "items", "stale", "old.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(raw, ".last_sha"), []byte("keep"), 0o644))

	archive := buildZip(t, map[string]string{
		"stalcraft-database-main/ru/items/":                  "",
		"stalcraft-database-main/ru/items/weapon/rifle.json": `{"id": "rifle"}`,
		"stalcraft-database-main/ru/icons/weapon/rifle.png":  "png",
		"stalcraft-database-main/ru/listing.json":            `[]`,
		"stalcraft-database-main/en/items/weapon/rifle.json": `{"id": "en"}`,
		"stalcraft-database-main/README.md":                  "readme",
	})

	ex := source.NewExtractor(testConfig(""), zap.NewNop())
	report, err := ex.Extract(archive, raw)
	require.NoError(t, err)
	assert.Equal(t, &source.ExtractReport{Items: 1, Icons: 1, Listing: true}, report)

	data, err := os.ReadFile(filepath.Join(raw, "items", "weapon", "rifle.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": "rifle"}`, string(data))

	assert.FileExists(t, filepath.Join(raw, "icons", "weapon", "rifle.png"))
	assert.FileExists(t, filepath.Join(raw, "listing.json"))
	assert.FileExists(t, filepath.Join(raw, ".last_sha"))
	assert.NoFileExists(t, filepath.Join(raw, "items", "stale", "old.json"))
	assert.NoFileExists(t, filepath.Join(raw, "README.md"))
}

func TestExtractor_RejectsTraversal(t *testing.T) {
	raw := t.TempDir()
	archive := buildZip(t, map[string]string{
		"stalcraft-database-main/ru/items/../../../evil.json": `{}`,
	})

	_, err := source.NewExtractor(testConfig(""), zap.NewNop()).Extract(archive, raw)
	var pathErr *errs.PathSafetyError
	assert.True(t, errors.As(err, &pathErr))
}

func TestExtractor_InvalidArchive(t *testing.T) {
	_, err := source.NewExtractor(testConfig(""), zap.NewNop()).Extract([]byte("not a zip"), t.TempDir())
	assert.Error(t, err)
}

func TestCopyIcons(t *testing.T) {
	raw := t.TempDir()
	out := t.TempDir()

	t.Run("MissingSource", func(t *testing.T) {
		assert.NoError(t, source.CopyIcons(raw, out, zap.NewNop()))
	})

	t.Run("Replaces", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Join(raw, "icons", "a"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(raw, "icons", "a", "x.png"), []byte("x"), 0o644))
		require.NoError(t, os.MkdirAll(filepath.Join(out, "icons"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(out, "icons", "old.png"), []byte("o"), 0o644))

		require.NoError(t, source.CopyIcons(raw, out, zap.NewNop()))
		assert.FileExists(t, filepath.Join(out, "icons", "a", "x.png"))
		assert.NoFileExists(t, filepath.Join(out, "icons", "old.png"))
	})
}
