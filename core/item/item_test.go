package item_test

import (
	"encoding/json"
	"testing"

	"item-mirror/core/item"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rifleJSON = `{
  "id": "y3vl",
  "category": "weapon/assault_rifle",
  "name": {"type": "translation", "key": "item.wpn.ak74.name", "args": {}, "lines": {"ru": "АК-74", "en": "AK-74"}},
  "color": "RANK_STALKER",
  "status": {"state": "NON_DROP"},
  "shortName": "ak",
  "infoBlocks": [
    {"type": "list", "title": {"type": "text", "text": ""}, "elements": [
      {"type": "numeric", "name": {"type": "translation", "key": "core.tooltip.stat_name.damage_type.direct", "args": {}, "lines": {}},
       "value": 40, "formatted": {"value": {"en": "40"}, "nameColor": "C5C5C5"}},
      {"type": "key-value", "key": {"type": "text", "text": "Rank"}, "value": {"type": "text", "text": "Stalker <3>"}},
      {"type": "item", "id": "abc"},
      {"type": "price", "currency": "RUB", "amount": 1500},
      {"type": "sparkle", "intensity": 3}
    ]},
    {"type": "damage", "startDamage": 40, "damageDecreaseStart": 30, "endDamage": 20, "damageDecreaseEnd": 60, "maxDistance": 80},
    {"type": "text", "title": {"type": "text", "text": "Lore"}, "text": {"type": "text", "text": "Old but reliable."}},
    {"type": "mystery", "payload": [1, 2]}
  ]
}`

func TestDecode(t *testing.T) {
	it, err := item.Decode([]byte(rifleJSON))
	require.NoError(t, err)

	assert.Equal(t, "y3vl", it.ID)
	assert.Equal(t, "weapon", it.CategoryRoot())
	assert.Equal(t, item.ColorRankStalker, it.Color)
	assert.Equal(t, "NON_DROP", it.Status.State)
	assert.Equal(t, "item.wpn.ak74.name", item.TranslationKey(it.Name))
	require.Len(t, it.InfoBlocks, 4)

	list, ok := it.InfoBlocks[0].(item.ListBlock)
	require.True(t, ok)
	require.Len(t, list.Elements, 5)

	num, ok := list.Elements[0].(item.NumericElement)
	require.True(t, ok)
	assert.Equal(t, float64(40), num.Value)
	assert.Equal(t, "C5C5C5", num.Formatted.NameColor)
	assert.Equal(t, "40", num.Formatted.Value["en"])

	assert.IsType(t, item.KeyValueElement{}, list.Elements[1])
	assert.IsType(t, item.ItemRefElement{}, list.Elements[2])
	assert.IsType(t, item.PriceElement{}, list.Elements[3])
	assert.IsType(t, item.OpaqueElement{}, list.Elements[4])

	assert.IsType(t, item.DamageBlock{}, it.InfoBlocks[1])
	assert.IsType(t, item.TextBlock{}, it.InfoBlocks[2])
	assert.IsType(t, item.OpaqueBlock{}, it.InfoBlocks[3])
	assert.Contains(t, it.Extra, "shortName")
}

func TestEncodePreservesDocument(t *testing.T) {
	it, err := item.Decode([]byte(rifleJSON))
	require.NoError(t, err)

	out, err := json.Marshal(it)
	require.NoError(t, err)

	var want, got any
	require.NoError(t, json.Unmarshal([]byte(rifleJSON), &want))
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, want, got)
	assert.Contains(t, string(out), "Stalker <3>")
}

func TestNumericVariantsLenientDecode(t *testing.T) {
	raw := `{"type": "numericVariants", "name": {"type": "text", "text": "dmg"}, "value": [3, "x", 1]}`
	el, err := item.DecodeElement(json.RawMessage(raw))
	require.NoError(t, err)

	nv := el.(item.NumericVariantsElement)
	assert.Equal(t, []float64{3, 1}, nv.Value)

	single, err := item.DecodeElement(json.RawMessage(`{"type": "numericVariants", "name": null, "value": 7}`))
	require.NoError(t, err)
	assert.Equal(t, []float64{7}, single.(item.NumericVariantsElement).Value)
}

func TestDecodeLooseDocument(t *testing.T) {
	raw := `{
  "id": 1234,
  "category": "artefact/gravity",
  "name": {"type": "emoji", "code": "star"},
  "infoBlocks": [
    {"type": "list", "elements": [
      {"type": "usage", "name": {"type": "text", "text": "Charges"}, "value": "1.5"},
      {"type": "range", "name": {"type": "text", "text": "Speed"}, "min": "2", "max": 3,
       "formatted": {"value": {"ru": 5, "en": "five"}, "nameColor": "53C353"}}
    ]}
  ]
}`
	it, err := item.Decode([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "1234", it.ID)
	assert.Equal(t, item.OpaqueMessage{Raw: json.RawMessage(`{"type": "emoji", "code": "star"}`)}, it.Name)

	elements := item.BlockElements(it.InfoBlocks[0])
	assert.Equal(t, 1.5, elements[0].(item.UsageElement).Value)
	rng := elements[1].(item.RangeElement)
	assert.Equal(t, 2.0, rng.Min)
	assert.Equal(t, 3.0, rng.Max)
	assert.Equal(t, map[string]string{"ru": "5", "en": "five"}, rng.Formatted.Value)
	assert.Equal(t, "53C353", rng.Formatted.NameColor)

	out, err := json.Marshal(it)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"code":"star"`)
}

func TestDecodeOmitsMissingIdentity(t *testing.T) {
	it, err := item.Decode([]byte(`{"name": {"type": "text", "text": "A"}, "infoBlocks": []}`))
	require.NoError(t, err)

	out, err := json.Marshal(it)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"id"`)
	assert.NotContains(t, string(out), `"category"`)
}

func TestDecodeRejectsNonObject(t *testing.T) {
	_, err := item.Decode([]byte(`[1, 2]`))
	assert.Error(t, err)

	_, err = item.Decode([]byte(`{"id": {"nested": true}}`))
	assert.Error(t, err)
}
