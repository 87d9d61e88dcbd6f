// Cache entry encoding.
//
// Each value in the records bucket is one JSON object:
//
//	{"v": 1, "digest": "<sha256 hex>", "records": {...FileRecords...}}
//
// JSON rather than gob so that empty member lists survive a round trip as
// empty lists and the cached records encode to the same output as fresh ones.
package bbolt

import (
	"encoding/json"
	"fmt"

	"github.com/b11005/blink-idl-diff/internal/domain/record"
)

// entryVersion is bumped whenever the record layout changes. Entries written
// with another version are treated as misses.
const entryVersion = 1

type entry struct {
	Version int                 `json:"v"`
	Digest  string              `json:"digest"`
	Records *record.FileRecords `json:"records"`
}

func encodeEntry(digest string, fr *record.FileRecords) ([]byte, error) {
	if fr == nil {
		return nil, fmt.Errorf("nil records")
	}
	data, err := json.Marshal(entry{Version: entryVersion, Digest: digest, Records: fr})
	if err != nil {
		return nil, fmt.Errorf("marshal entry: %w", err)
	}
	return data, nil
}

// decodeEntry returns ok=false for entries of another version.
func decodeEntry(data []byte) (e entry, ok bool, err error) {
	if err := json.Unmarshal(data, &e); err != nil {
		return entry{}, false, fmt.Errorf("unmarshal entry: %w", err)
	}
	if e.Version != entryVersion || e.Records == nil {
		return entry{}, false, nil
	}
	return e, true, nil
}
