package item

import (
	"encoding/json"
	"fmt"
)

const (
	MessageText        = "text"
	MessageTranslation = "translation"
)

// Message is a display string: TextMessage, TranslationMessage, or
// OpaqueMessage for a type that is not modelled.
type Message interface {
	isMessage()
}

// TextMessage is a literal string.
type TextMessage struct {
	Text string
}

// TranslationMessage is a translation key with arguments and per-locale lines.
type TranslationMessage struct {
	Key   string
	Args  map[string]any
	Lines map[string]string
}

// OpaqueMessage preserves a message whose type is not modelled.
type OpaqueMessage struct {
	Raw json.RawMessage
}

func (TextMessage) isMessage()        {}
func (TranslationMessage) isMessage() {}
func (OpaqueMessage) isMessage()      {}

func (m OpaqueMessage) MarshalJSON() ([]byte, error) {
	if len(m.Raw) == 0 {
		return []byte("null"), nil
	}
	return m.Raw, nil
}

func (m TextMessage) MarshalJSON() ([]byte, error) {
	return encode(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{MessageText, m.Text})
}

func (m TranslationMessage) MarshalJSON() ([]byte, error) {
	args := m.Args
	if args == nil {
		args = map[string]any{}
	}
	lines := m.Lines
	if lines == nil {
		lines = map[string]string{}
	}
	return encode(struct {
		Type  string            `json:"type"`
		Key   string            `json:"key"`
		Args  map[string]any    `json:"args"`
		Lines map[string]string `json:"lines"`
	}{MessageTranslation, m.Key, args, lines})
}

// DecodeMessage decodes a tagged message. JSON null decodes to nil.
func DecodeMessage(raw json.RawMessage) (Message, error) {
	if isNull(raw) {
		return nil, nil
	}
	kind, err := peekType(raw)
	if err != nil {
		return nil, fmt.Errorf("message: %w", err)
	}
	switch kind {
	case MessageText:
		var m struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("text message: %w", err)
		}
		return TextMessage{Text: m.Text}, nil
	case MessageTranslation:
		var m struct {
			Key   string            `json:"key"`
			Args  map[string]any    `json:"args"`
			Lines map[string]string `json:"lines"`
		}
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("translation message: %w", err)
		}
		return TranslationMessage{Key: m.Key, Args: m.Args, Lines: m.Lines}, nil
	default:
		return OpaqueMessage{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
}

// TranslationKey returns the key of a translation message, or "" for anything else.
func TranslationKey(m Message) string {
	if t, ok := m.(TranslationMessage); ok {
		return t.Key
	}
	return ""
}
