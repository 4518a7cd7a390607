package merge

import (
	"encoding/json"
	"fmt"

	"item-mirror/core/item"
	"item-mirror/core/jsonfs"
)

const (
	blocksField   = "infoBlocks"
	elementsField = "elements"
)

// Patch writes the elements rewritten by res back into the raw canonical
// document. Members the merge did not touch keep their order and bytes,
// including fields the item model does not know.
func Patch(data []byte, res Result) (*jsonfs.Object, error) {
	doc, err := jsonfs.ParseObject(data)
	if err != nil {
		return nil, fmt.Errorf("parse canonical: %w", err)
	}
	if len(res.Targets) == 0 {
		return doc, nil
	}

	var blocks []json.RawMessage
	raw, ok := doc.Get(blocksField)
	if !ok {
		return nil, fmt.Errorf("canonical has no %s", blocksField)
	}
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return nil, fmt.Errorf("canonical %s: %w", blocksField, err)
	}

	byBlock := make(map[int][]Target)
	for _, t := range res.Targets {
		byBlock[t.Block] = append(byBlock[t.Block], t)
	}

	for bi, targets := range byBlock {
		if bi >= len(blocks) || bi >= len(res.Item.InfoBlocks) {
			return nil, fmt.Errorf("block %d out of range", bi)
		}
		patched, err := patchBlock(blocks[bi], item.BlockElements(res.Item.InfoBlocks[bi]), targets)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", bi, err)
		}
		blocks[bi] = patched
	}

	if err := doc.SetValue(blocksField, blocks); err != nil {
		return nil, err
	}
	return doc, nil
}

func patchBlock(raw json.RawMessage, merged []item.InfoElement, targets []Target) (json.RawMessage, error) {
	block, err := jsonfs.ParseObject(raw)
	if err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	rawElements, _ := block.Get(elementsField)
	if err := json.Unmarshal(rawElements, &elements); err != nil {
		return nil, fmt.Errorf("%s: %w", elementsField, err)
	}

	for _, t := range targets {
		if t.Element >= len(elements) || t.Element >= len(merged) {
			return nil, fmt.Errorf("element %d out of range", t.Element)
		}
		el, ok := merged[t.Element].(item.NumericVariantsElement)
		if !ok {
			return nil, fmt.Errorf("element %d was not rewritten", t.Element)
		}
		patched, err := patchElement(elements[t.Element], el)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", t.Element, err)
		}
		elements[t.Element] = patched
	}

	if err := block.SetValue(elementsField, elements); err != nil {
		return nil, err
	}
	return jsonfs.Encode(block)
}

// patchElement turns a raw stat element into numericVariants. The formatted
// value and colors are removed since the top-level fields carry them now;
// other formatted members stay, and an emptied formatted object is dropped.
func patchElement(raw json.RawMessage, el item.NumericVariantsElement) (json.RawMessage, error) {
	obj, err := jsonfs.ParseObject(raw)
	if err != nil {
		return nil, err
	}

	if err := obj.SetValue("type", item.ElementNumericVariants); err != nil {
		return nil, err
	}
	if err := obj.SetValue("value", el.Value); err != nil {
		return nil, err
	}
	if el.NameColor != "" {
		if err := obj.SetValue("nameColor", el.NameColor); err != nil {
			return nil, err
		}
	}
	if el.ValueColor != "" {
		if err := obj.SetValue("valueColor", el.ValueColor); err != nil {
			return nil, err
		}
	}

	if rawFormatted, ok := obj.Get("formatted"); ok {
		// A formatted value that is not an object is left alone.
		if f, err := jsonfs.ParseObject(rawFormatted); err == nil {
			f.Delete("value")
			f.Delete("nameColor")
			f.Delete("valueColor")
			if f.Len() == 0 {
				obj.Delete("formatted")
			} else if err := obj.SetValue("formatted", f); err != nil {
				return nil, err
			}
		}
	}
	return jsonfs.Encode(obj)
}
