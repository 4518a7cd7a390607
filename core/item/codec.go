package item

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// encode marshals v without HTML escaping.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// peekType reads the "type" tag of a JSON object.
func peekType(raw json.RawMessage) (string, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return "", err
	}
	return tag.Type, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeNumber reads a number that may also arrive as a numeric string.
// Null, booleans and non-numeric strings read as 0.
func decodeNumber(raw json.RawMessage) (float64, error) {
	if isNull(raw) {
		return 0, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	f, _ := toNumber(v)
	return f, nil
}

// decodeNumbers accepts a number or an array and keeps only numeric entries.
func decodeNumbers(raw json.RawMessage) ([]float64, error) {
	if isNull(raw) {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	many, ok := v.([]any)
	if !ok {
		many = []any{v}
	}
	nums := make([]float64, 0, len(many))
	for _, entry := range many {
		if f, ok := toNumber(entry); ok {
			nums = append(nums, f)
		}
	}
	return nums, nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// decodeScalar reads a string, or a number rendered as its JSON text.
func decodeScalar(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
