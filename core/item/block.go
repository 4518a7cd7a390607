package item

import (
	"encoding/json"
	"fmt"
)

const (
	BlockText    = "text"
	BlockList    = "list"
	BlockAddStat = "addStat"
	BlockDamage  = "damage"
)

// InfoBlock is one section of an item's tooltip. The concrete cases are the
// *Block types of this package.
type InfoBlock interface {
	isInfoBlock()
}

type TextBlock struct {
	Title Message `json:"title,omitempty"`
	Text  Message `json:"text"`
}

type ListBlock struct {
	Title    Message       `json:"title,omitempty"`
	Elements []InfoElement `json:"elements"`
}

// AddStatBlock holds supplemental stats injected from the external stat service.
type AddStatBlock struct {
	Title    Message       `json:"title,omitempty"`
	Elements []InfoElement `json:"elements"`
}

type DamageBlock struct {
	StartDamage         float64    `json:"startDamage"`
	DamageDecreaseStart float64    `json:"damageDecreaseStart"`
	EndDamage           float64    `json:"endDamage"`
	DamageDecreaseEnd   float64    `json:"damageDecreaseEnd"`
	MaxDistance         float64    `json:"maxDistance"`
	Formatted           *Formatted `json:"formatted,omitempty"`
}

// OpaqueBlock preserves a block whose type is not modelled.
type OpaqueBlock struct {
	Raw json.RawMessage
}

func (TextBlock) isInfoBlock()    {}
func (ListBlock) isInfoBlock()    {}
func (AddStatBlock) isInfoBlock() {}
func (DamageBlock) isInfoBlock()  {}
func (OpaqueBlock) isInfoBlock()  {}

func (b TextBlock) MarshalJSON() ([]byte, error) {
	type alias TextBlock
	return encode(struct {
		Type string `json:"type"`
		alias
	}{BlockText, alias(b)})
}

func (b ListBlock) MarshalJSON() ([]byte, error) {
	type alias ListBlock
	if b.Elements == nil {
		b.Elements = []InfoElement{}
	}
	return encode(struct {
		Type string `json:"type"`
		alias
	}{BlockList, alias(b)})
}

func (b AddStatBlock) MarshalJSON() ([]byte, error) {
	type alias AddStatBlock
	if b.Elements == nil {
		b.Elements = []InfoElement{}
	}
	return encode(struct {
		Type string `json:"type"`
		alias
	}{BlockAddStat, alias(b)})
}

func (b DamageBlock) MarshalJSON() ([]byte, error) {
	type alias DamageBlock
	return encode(struct {
		Type string `json:"type"`
		alias
	}{BlockDamage, alias(b)})
}

func (b OpaqueBlock) MarshalJSON() ([]byte, error) {
	if len(b.Raw) == 0 {
		return []byte("null"), nil
	}
	return b.Raw, nil
}

type blockWire struct {
	Type     string            `json:"type"`
	Title    json.RawMessage   `json:"title"`
	Text     json.RawMessage   `json:"text"`
	Elements []json.RawMessage `json:"elements"`
}

// DecodeBlock decodes one tagged info block.
func DecodeBlock(raw json.RawMessage) (InfoBlock, error) {
	var w blockWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("block: %w", err)
	}

	switch w.Type {
	case BlockText:
		title, err := DecodeMessage(w.Title)
		if err != nil {
			return nil, err
		}
		text, err := DecodeMessage(w.Text)
		if err != nil {
			return nil, err
		}
		return TextBlock{Title: title, Text: text}, nil
	case BlockList, BlockAddStat:
		title, err := DecodeMessage(w.Title)
		if err != nil {
			return nil, err
		}
		elements := make([]InfoElement, 0, len(w.Elements))
		for i, rawEl := range w.Elements {
			el, err := DecodeElement(rawEl)
			if err != nil {
				return nil, fmt.Errorf("%s element %d: %w", w.Type, i, err)
			}
			elements = append(elements, el)
		}
		if w.Type == BlockAddStat {
			return AddStatBlock{Title: title, Elements: elements}, nil
		}
		return ListBlock{Title: title, Elements: elements}, nil
	case BlockDamage:
		var d DamageBlock
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("damage block: %w", err)
		}
		return d, nil
	default:
		return OpaqueBlock{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// BlockTitle returns a block's title, or nil for blocks without one.
func BlockTitle(b InfoBlock) Message {
	switch bl := b.(type) {
	case TextBlock:
		return bl.Title
	case ListBlock:
		return bl.Title
	case AddStatBlock:
		return bl.Title
	case DamageBlock, OpaqueBlock:
		return nil
	default:
		return nil
	}
}

// BlockElements returns the elements of list-shaped blocks.
func BlockElements(b InfoBlock) []InfoElement {
	switch bl := b.(type) {
	case ListBlock:
		return bl.Elements
	case AddStatBlock:
		return bl.Elements
	case TextBlock, DamageBlock, OpaqueBlock:
		return nil
	default:
		return nil
	}
}

// WithElements returns a copy of a list-shaped block holding elements.
// Other blocks are returned unchanged.
func WithElements(b InfoBlock, elements []InfoElement) InfoBlock {
	switch bl := b.(type) {
	case ListBlock:
		bl.Elements = elements
		return bl
	case AddStatBlock:
		bl.Elements = elements
		return bl
	default:
		return b
	}
}
