package stats_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"item-mirror/core/item"
	"item-mirror/core/jsonfs"
	"item-mirror/feature/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	records []stats.Record
	err     error
}

func (f fakeSource) Fetch(ctx context.Context) ([]stats.Record, error) {
	return f.records, f.err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readItem(t *testing.T, path string) item.Item {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	it, err := item.Decode(data)
	require.NoError(t, err)
	return it
}

const bareArtefact = `{"category": "artefact/gravity", "name": {"type": "text", "text": "Art"}, "infoBlocks": [{"type": "text", "text": {"type": "text", "text": "desc"}}]}`

var speed = stats.Stat{Key: "stalker.stat.speed", Name: map[string]string{"en": "Speed"}, Min: 1, Max: 2, Polarity: stats.PolarityPositive}

func TestAugmenter_MatchesByStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gravity", "art_123.json")
	writeFile(t, path, bareArtefact)

	src := fakeSource{records: []stats.Record{
		{ID: "art_123", Stats: []stats.Stat{speed}},
		{ID: "art_missing", Stats: []stats.Stat{speed}},
		{ID: "art_empty", Stats: []stats.Stat{{}}},
	}}

	report, err := stats.NewAugmenter(src, zap.NewNop(), 2).Run(context.Background(), dir, stats.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Matched)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, []string{"art_missing"}, report.Unmatched)

	it := readItem(t, path)
	require.Len(t, it.InfoBlocks, 2)
	block, ok := it.InfoBlocks[1].(item.AddStatBlock)
	require.True(t, ok)
	assert.Equal(t, item.TextMessage{Text: ""}, block.Title)
	require.Len(t, block.Elements, 1)

	el, ok := block.Elements[0].(item.RangeElement)
	require.True(t, ok)
	assert.Equal(t, 1.0, el.Min)
	assert.Equal(t, 2.0, el.Max)
	assert.Equal(t, stats.AccentPositive, el.Formatted.NameColor)
	assert.Equal(t, "stalker.stat.speed", item.TranslationKey(el.Name))
}

func TestAugmenter_FanOutByIdentifiers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.json"), `{"id": "shared", "name": null, "category": "artefact/x", "infoBlocks": []}`)
	writeFile(t, filepath.Join(dir, "b.json"), `{"id": "other", "custom_id": 77, "name": null, "category": "artefact/x", "infoBlocks": []}`)
	writeFile(t, filepath.Join(dir, "broken.json"), `{"id": `)

	src := fakeSource{records: []stats.Record{{ID: "shared", CustomID: "77", Stats: []stats.Stat{speed}}}}
	report, err := stats.NewAugmenter(src, zap.NewNop(), 1).Run(context.Background(), dir, stats.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Updated)

	assert.Len(t, readItem(t, filepath.Join(dir, "a.json")).InfoBlocks, 1)
	assert.Len(t, readItem(t, filepath.Join(dir, "b.json")).InfoBlocks, 1)
}

func TestAugmenter_AppendVersusReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "art_1.json")
	writeFile(t, path, bareArtefact)

	src := fakeSource{records: []stats.Record{{ID: "art_1", Stats: []stats.Stat{speed}}}}
	aug := stats.NewAugmenter(src, zap.NewNop(), 1)

	for i := 0; i < 2; i++ {
		_, err := aug.Run(context.Background(), dir, stats.Options{})
		require.NoError(t, err)
	}
	assert.Len(t, readItem(t, path).InfoBlocks, 3)

	_, err := aug.Run(context.Background(), dir, stats.Options{ReplaceInjected: true})
	require.NoError(t, err)
	assert.Len(t, readItem(t, path).InfoBlocks, 2)
}

func compactFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return compact(t, data)
}

func compact(t *testing.T, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, data))
	return buf.String()
}

func speedBlock(t *testing.T) string {
	t.Helper()
	raw, err := jsonfs.Encode(stats.BuildBlock([]stats.Stat{speed}, nil))
	require.NoError(t, err)
	return string(raw)
}

// Block placeholder is filled with "" for the input and the appended block for the output.
const richArtefact = `{"id": "art_1", "category": "artefact/gravity", "hidden": true,
  "name": {"type": "text", "text": "Art"},
  "infoBlocks": [
    {"type": "list", "hidden": true, "elements": [
      {"type": "numeric", "name": {"type": "text", "text": "Weight"}, "value": 1.5, "precision": 2, "formatted": {"suffix": "kg"}}
    ]}%s
  ],
  "source": {"patch": "1.4"}}`

func TestAugmenter_KeepsUnmodelledFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "art_1.json")
	writeFile(t, path, fmt.Sprintf(richArtefact, ""))

	src := fakeSource{records: []stats.Record{{ID: "art_1", Stats: []stats.Stat{speed}}}}
	report, err := stats.NewAugmenter(src, zap.NewNop(), 1).Run(context.Background(), dir, stats.Options{})
	require.NoError(t, err)
	require.Equal(t, 1, report.Updated)

	want := fmt.Sprintf(richArtefact, ", "+speedBlock(t))
	assert.Equal(t, compact(t, []byte(want)), compactFile(t, path))
}

func TestAugmenter_LooseDocuments(t *testing.T) {
	dir := t.TempDir()
	usage := filepath.Join(dir, "art_2.json")
	numeric := filepath.Join(dir, "art_3.json")
	writeFile(t, usage, `{"id": "art_2", "name": {"type": "emoji", "code": "star"},
		"infoBlocks": [{"type": "list", "elements": [{"type": "usage", "name": {"type": "text", "text": "Use"}, "value": "1.5"}]}]}`)
	writeFile(t, numeric, `{"id": 3003, "name": {"type": "text", "text": "Art"}, "info_blocks": []}`)

	src := fakeSource{records: []stats.Record{
		{ID: "art_2", Stats: []stats.Stat{speed}},
		{ID: "missing", CustomID: "3003", Stats: []stats.Stat{speed}},
	}}
	report, err := stats.NewAugmenter(src, zap.NewNop(), 1).Run(context.Background(), dir, stats.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Matched)
	assert.Equal(t, 2, report.Updated)
	assert.Empty(t, report.Unmatched)

	t.Run("Unknown Message And String Value Kept", func(t *testing.T) {
		want := `{"id": "art_2", "name": {"type": "emoji", "code": "star"},
			"infoBlocks": [{"type": "list", "elements": [{"type": "usage", "name": {"type": "text", "text": "Use"}, "value": "1.5"}]}, ` + speedBlock(t) + `]}`
		assert.Equal(t, compact(t, []byte(want)), compactFile(t, usage))
	})

	t.Run("Legacy Block Key", func(t *testing.T) {
		want := `{"id": 3003, "name": {"type": "text", "text": "Art"}, "info_blocks": [` + speedBlock(t) + `]}`
		assert.Equal(t, compact(t, []byte(want)), compactFile(t, numeric))
	})
}

func TestAugmenter_ReplaceKeepsOtherBlocks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "art_1.json")
	writeFile(t, path, fmt.Sprintf(richArtefact, ", "+speedBlock(t)))

	slow := stats.Stat{Key: "stalker.stat.speed", Min: -2, Max: -1, Polarity: stats.PolarityNegative}
	src := fakeSource{records: []stats.Record{{ID: "art_1", Stats: []stats.Stat{slow}}}}
	_, err := stats.NewAugmenter(src, zap.NewNop(), 1).Run(context.Background(), dir, stats.Options{ReplaceInjected: true})
	require.NoError(t, err)

	raw, err := jsonfs.Encode(stats.BuildBlock([]stats.Stat{slow}, nil))
	require.NoError(t, err)
	want := fmt.Sprintf(richArtefact, ", "+string(raw))
	assert.Equal(t, compact(t, []byte(want)), compactFile(t, path))
}

func TestAugmenter_FetchFailureSkips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "art_1.json")
	writeFile(t, path, bareArtefact)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	report, err := stats.NewAugmenter(fakeSource{err: errors.New("offline")}, zap.NewNop(), 1).
		Run(context.Background(), dir, stats.Options{})
	require.NoError(t, err)
	assert.True(t, report.Skipped)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestBuildElement(t *testing.T) {
	table := stats.Table{"k": {"ru": "Из таблицы", "en": ""}}

	t.Run("TableWinsInlineFills", func(t *testing.T) {
		el := stats.BuildElement(stats.Stat{Key: "k", Name: map[string]string{"ru": "Inline", "en": "Inline", "de": "Inline"}}, table)
		msg := el.Name.(item.TranslationMessage)
		assert.Equal(t, map[string]string{"ru": "Из таблицы", "en": "Inline", "de": "Inline"}, msg.Lines)
		assert.Nil(t, el.Formatted)
	})

	t.Run("NegativeWithValues", func(t *testing.T) {
		el := stats.BuildElement(stats.Stat{Key: "k", Polarity: stats.PolarityNegative, Formatted: map[string]string{"en": "-5%"}}, nil)
		require.NotNil(t, el.Formatted)
		assert.Equal(t, stats.AccentNegative, el.Formatted.ValueColor)
		assert.Equal(t, map[string]string{"en": "-5%"}, el.Formatted.Value)
	})

	t.Run("Encoding", func(t *testing.T) {
		block := stats.BuildBlock([]stats.Stat{{Key: "k", Min: 1, Max: 2}}, nil)
		data, err := json.Marshal(block)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"addStat","title":{"type":"text","text":""},"elements":[
			{"type":"range","name":{"type":"translation","key":"k","args":{},"lines":{}},"min":1,"max":2}]}`, string(data))
	})
}
