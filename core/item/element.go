package item

import (
	"encoding/json"
	"fmt"
)

const (
	ElementPrice           = "price"
	ElementItem            = "item"
	ElementText            = "text"
	ElementKeyValue        = "key-value"
	ElementNumeric         = "numeric"
	ElementRange           = "range"
	ElementNumericVariants = "numericVariants"
	ElementUsage           = "usage"
)

// Formatted carries display overrides for an element.
type Formatted struct {
	Value      map[string]string `json:"value,omitempty"`
	NameColor  string            `json:"nameColor,omitempty"`
	ValueColor string            `json:"valueColor,omitempty"`
}

func (f *Formatted) UnmarshalJSON(data []byte) error {
	var w struct {
		Value      map[string]json.RawMessage `json:"value"`
		NameColor  json.RawMessage            `json:"nameColor"`
		ValueColor json.RawMessage            `json:"valueColor"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("formatted: %w", err)
	}

	var out Formatted
	for lang, raw := range w.Value {
		// Non-scalar entries are not display strings.
		if text, err := decodeScalar(raw); err == nil {
			if out.Value == nil {
				out.Value = make(map[string]string, len(w.Value))
			}
			out.Value[lang] = text
		}
	}
	out.NameColor, _ = decodeScalar(w.NameColor)
	out.ValueColor, _ = decodeScalar(w.ValueColor)
	*f = out
	return nil
}

// IsEmpty reports whether no override is set.
func (f *Formatted) IsEmpty() bool {
	return f == nil || (len(f.Value) == 0 && f.NameColor == "" && f.ValueColor == "")
}

// Style holds the display overrides every element may carry. The top-level
// colors mirror Formatted's colors for older consumers.
type Style struct {
	Formatted  *Formatted `json:"formatted,omitempty"`
	NameColor  string     `json:"nameColor,omitempty"`
	ValueColor string     `json:"valueColor,omitempty"`
}

// InfoElement is one row of an info block. The concrete cases are the
// *Element types of this package.
type InfoElement interface {
	isInfoElement()
}

type PriceElement struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
	Style
}

// ItemElement references another item by display name.
type ItemElement struct {
	Name Message `json:"name"`
	Style
}

// ItemRefElement references another item by id.
type ItemRefElement struct {
	ID string `json:"id"`
	Style
}

type TextElement struct {
	Text Message `json:"text"`
	Style
}

type KeyValueElement struct {
	Key   Message `json:"key"`
	Value Message `json:"value"`
	Style
}

type NumericElement struct {
	Name  Message `json:"name"`
	Value float64 `json:"value"`
	Style
}

type RangeElement struct {
	Name Message `json:"name"`
	Key  string  `json:"key,omitempty"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Style
}

type NumericVariantsElement struct {
	Name  Message   `json:"name"`
	Value []float64 `json:"value"`
	Style
}

type UsageElement struct {
	Name  Message `json:"name"`
	Value float64 `json:"value"`
	Style
}

// OpaqueElement preserves an element whose type is not modelled.
type OpaqueElement struct {
	Raw json.RawMessage
}

func (PriceElement) isInfoElement()           {}
func (ItemElement) isInfoElement()            {}
func (ItemRefElement) isInfoElement()         {}
func (TextElement) isInfoElement()            {}
func (KeyValueElement) isInfoElement()        {}
func (NumericElement) isInfoElement()         {}
func (RangeElement) isInfoElement()           {}
func (NumericVariantsElement) isInfoElement() {}
func (UsageElement) isInfoElement()           {}
func (OpaqueElement) isInfoElement()          {}

func (e PriceElement) MarshalJSON() ([]byte, error) {
	type alias PriceElement
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementPrice, alias(e)})
}

func (e ItemElement) MarshalJSON() ([]byte, error) {
	type alias ItemElement
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementItem, alias(e)})
}

func (e ItemRefElement) MarshalJSON() ([]byte, error) {
	type alias ItemRefElement
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementItem, alias(e)})
}

func (e TextElement) MarshalJSON() ([]byte, error) {
	type alias TextElement
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementText, alias(e)})
}

func (e KeyValueElement) MarshalJSON() ([]byte, error) {
	type alias KeyValueElement
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementKeyValue, alias(e)})
}

func (e NumericElement) MarshalJSON() ([]byte, error) {
	type alias NumericElement
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementNumeric, alias(e)})
}

func (e RangeElement) MarshalJSON() ([]byte, error) {
	type alias RangeElement
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementRange, alias(e)})
}

func (e NumericVariantsElement) MarshalJSON() ([]byte, error) {
	type alias NumericVariantsElement
	if e.Value == nil {
		e.Value = []float64{}
	}
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementNumericVariants, alias(e)})
}

func (e UsageElement) MarshalJSON() ([]byte, error) {
	type alias UsageElement
	return encode(struct {
		Type string `json:"type"`
		alias
	}{ElementUsage, alias(e)})
}

func (e OpaqueElement) MarshalJSON() ([]byte, error) {
	if len(e.Raw) == 0 {
		return []byte("null"), nil
	}
	return e.Raw, nil
}

// elementWire is the union of every element field as it appears on the wire.
type elementWire struct {
	Type     string          `json:"type"`
	Name     json.RawMessage `json:"name"`
	Text     json.RawMessage `json:"text"`
	Key      json.RawMessage `json:"key"`
	Value    json.RawMessage `json:"value"`
	ID       json.RawMessage `json:"id"`
	Currency string          `json:"currency"`
	Amount   json.RawMessage `json:"amount"`
	Min      json.RawMessage `json:"min"`
	Max      json.RawMessage `json:"max"`
	Style
}

// DecodeElement decodes one tagged info element.
func DecodeElement(raw json.RawMessage) (InfoElement, error) {
	var w elementWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("element: %w", err)
	}

	switch w.Type {
	case ElementPrice:
		amount, err := decodeNumber(w.Amount)
		if err != nil {
			return nil, fmt.Errorf("price amount: %w", err)
		}
		return PriceElement{Currency: w.Currency, Amount: amount, Style: w.Style}, nil
	case ElementItem:
		if isNull(w.Name) {
			id, err := decodeScalar(w.ID)
			if err != nil {
				return nil, fmt.Errorf("item id: %w", err)
			}
			return ItemRefElement{ID: id, Style: w.Style}, nil
		}
		name, err := DecodeMessage(w.Name)
		if err != nil {
			return nil, err
		}
		return ItemElement{Name: name, Style: w.Style}, nil
	case ElementText:
		text, err := DecodeMessage(w.Text)
		if err != nil {
			return nil, err
		}
		return TextElement{Text: text, Style: w.Style}, nil
	case ElementKeyValue:
		key, err := DecodeMessage(w.Key)
		if err != nil {
			return nil, err
		}
		value, err := DecodeMessage(w.Value)
		if err != nil {
			return nil, err
		}
		return KeyValueElement{Key: key, Value: value, Style: w.Style}, nil
	case ElementNumeric, ElementUsage:
		name, err := DecodeMessage(w.Name)
		if err != nil {
			return nil, err
		}
		value, err := decodeNumber(w.Value)
		if err != nil {
			return nil, fmt.Errorf("%s value: %w", w.Type, err)
		}
		if w.Type == ElementUsage {
			return UsageElement{Name: name, Value: value, Style: w.Style}, nil
		}
		return NumericElement{Name: name, Value: value, Style: w.Style}, nil
	case ElementRange:
		name, err := DecodeMessage(w.Name)
		if err != nil {
			return nil, err
		}
		key, err := decodeScalar(w.Key)
		if err != nil {
			return nil, fmt.Errorf("range key: %w", err)
		}
		lo, err := decodeNumber(w.Min)
		if err != nil {
			return nil, fmt.Errorf("range min: %w", err)
		}
		hi, err := decodeNumber(w.Max)
		if err != nil {
			return nil, fmt.Errorf("range max: %w", err)
		}
		return RangeElement{Name: name, Key: key, Min: lo, Max: hi, Style: w.Style}, nil
	case ElementNumericVariants:
		name, err := DecodeMessage(w.Name)
		if err != nil {
			return nil, err
		}
		values, err := decodeNumbers(w.Value)
		if err != nil {
			return nil, fmt.Errorf("numericVariants value: %w", err)
		}
		return NumericVariantsElement{Name: name, Value: values, Style: w.Style}, nil
	default:
		return OpaqueElement{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// ElementName returns the name message of elements that carry one.
func ElementName(e InfoElement) Message {
	switch el := e.(type) {
	case ItemElement:
		return el.Name
	case NumericElement:
		return el.Name
	case RangeElement:
		return el.Name
	case NumericVariantsElement:
		return el.Name
	case UsageElement:
		return el.Name
	case PriceElement, ItemRefElement, TextElement, KeyValueElement, OpaqueElement:
		return nil
	default:
		return nil
	}
}
