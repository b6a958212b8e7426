package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/blackfoxxx/VulnAI/internal/catalog"
)

// The backend serves tools as a JSON object keyed by name. Standard
// map decoding would randomize iteration order, and the catalog view
// deliberately keeps the backend's listing order within a category,
// so these decoders walk the object token by token.

func decodeOrderedTools(raw json.RawMessage) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	err := walkObject(raw, func(name string, value json.RawMessage) error {
		var tool catalog.Tool
		if err := json.Unmarshal(value, &tool); err != nil {
			return fmt.Errorf("tool %q: %w", name, err)
		}
		entries = append(entries, catalog.Entry{Name: name, Tool: tool})
		return nil
	})
	return entries, err
}

func decodeOrderedTemplates(raw json.RawMessage) ([]Template, error) {
	var templates []Template
	err := walkObject(raw, func(key string, value json.RawMessage) error {
		var tpl Template
		if err := json.Unmarshal(value, &tpl); err != nil {
			return fmt.Errorf("template %q: %w", key, err)
		}
		tpl.Key = key
		templates = append(templates, tpl)
		return nil
	})
	return templates, err
}

// walkObject visits each key/value pair of a JSON object in document
// order. A null or absent object visits nothing.
func walkObject(raw json.RawMessage, visit func(key string, value json.RawMessage) error) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading object: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected string key, got %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("reading value for %q: %w", key, err)
		}

		if err := visit(key, value); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading object end: %w", err)
	}
	return nil
}
