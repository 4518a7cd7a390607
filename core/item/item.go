package item

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Color is the rank or rarity tier of an item.
type Color string

const (
	ColorDefault             Color = "DEFAULT"
	ColorQuestItem           Color = "QUEST_ITEM"
	ColorRankNewbie          Color = "RANK_NEWBIE"
	ColorRankStalker         Color = "RANK_STALKER"
	ColorRankVeteran         Color = "RANK_VETERAN"
	ColorRankMaster          Color = "RANK_MASTER"
	ColorRankLegend          Color = "RANK_LEGEND"
	ColorArtQualityCommon    Color = "ART_QUALITY_COMMON"
	ColorArtQualityUncommon  Color = "ART_QUALITY_UNCOMMON"
	ColorArtQualitySpecial   Color = "ART_QUALITY_SPECIAL"
	ColorArtQualityRare      Color = "ART_QUALITY_RARE"
	ColorArtQualityExclusive Color = "ART_QUALITY_EXCLUSIVE"
	ColorArtQualityLegendary Color = "ART_QUALITY_LEGENDARY"
	ColorArtQualityUnique    Color = "ART_QUALITY_UNIQUE"
)

// BindStatus is the upstream bind state of an item.
type BindStatus struct {
	State string `json:"state"`
}

// Item is one upstream item document.
type Item struct {
	ID         string      `json:"id,omitempty"`
	Category   string      `json:"category,omitempty"`
	Name       Message     `json:"name"`
	Color      Color       `json:"color,omitempty"`
	Status     *BindStatus `json:"status,omitempty"`
	InfoBlocks []InfoBlock `json:"infoBlocks"`

	// Extra keeps top-level fields that are not modelled so they survive a rewrite.
	Extra map[string]json.RawMessage `json:"-"`
}

var knownItemFields = map[string]struct{}{
	"id": {}, "category": {}, "name": {}, "color": {}, "status": {}, "infoBlocks": {},
}

func (it *Item) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("item: %w", err)
	}
	if fields == nil {
		return fmt.Errorf("item: document is null")
	}

	var out Item
	var err error
	if out.ID, err = decodeScalar(fields["id"]); err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	if out.Category, err = decodeScalar(fields["category"]); err != nil {
		return fmt.Errorf("item category: %w", err)
	}
	if raw, ok := fields["color"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &out.Color); err != nil {
			return fmt.Errorf("item color: %w", err)
		}
	}
	if raw, ok := fields["status"]; ok && !isNull(raw) {
		out.Status = &BindStatus{}
		if err := json.Unmarshal(raw, out.Status); err != nil {
			return fmt.Errorf("item status: %w", err)
		}
	}
	name, err := DecodeMessage(fields["name"])
	if err != nil {
		return fmt.Errorf("item name: %w", err)
	}
	out.Name = name

	if raw, ok := fields["infoBlocks"]; ok && !isNull(raw) {
		var blocks []json.RawMessage
		if err := json.Unmarshal(raw, &blocks); err != nil {
			return fmt.Errorf("item infoBlocks: %w", err)
		}
		out.InfoBlocks = make([]InfoBlock, 0, len(blocks))
		for i, rawBlock := range blocks {
			b, err := DecodeBlock(rawBlock)
			if err != nil {
				return fmt.Errorf("item block %d: %w", i, err)
			}
			out.InfoBlocks = append(out.InfoBlocks, b)
		}
	}

	for k, v := range fields {
		if _, known := knownItemFields[k]; known {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage)
		}
		out.Extra[k] = v
	}

	*it = out
	return nil
}

func (it Item) MarshalJSON() ([]byte, error) {
	type alias Item
	a := alias(it)
	if a.InfoBlocks == nil {
		a.InfoBlocks = []InfoBlock{}
	}
	base, err := encode(a)
	if err != nil {
		return nil, err
	}
	if len(it.Extra) == 0 {
		return base, nil
	}

	keys := make([]string, 0, len(it.Extra))
	for k := range it.Extra {
		if _, known := knownItemFields[k]; !known {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(base, []byte("}")))
	for _, k := range keys {
		name, err := encode(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(it.Extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode parses an item document.
func Decode(data []byte) (Item, error) {
	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		return Item{}, err
	}
	return it, nil
}

// CategoryRoot returns the first segment of the slash-delimited category.
func (it Item) CategoryRoot() string {
	for i := 0; i < len(it.Category); i++ {
		if it.Category[i] == '/' {
			return it.Category[:i]
		}
	}
	return it.Category
}
