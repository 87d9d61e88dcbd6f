package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultIndent is the number of spaces used per nesting level.
const DefaultIndent = 4

// Encode renders set as one JSON object keyed by interface name. Keys are
// sorted at every level; indent <= 0 produces compact output. HTML escaping
// is off so types such as sequence<long> stay readable.
func Encode(set Set, indent int) ([]byte, error) {
	if set == nil {
		set = Set{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a document produced by Encode.
func Decode(data []byte) (Set, error) {
	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if set == nil {
		set = Set{}
	}
	return set, nil
}
