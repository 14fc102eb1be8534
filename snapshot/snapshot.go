// Package snapshot implements the on-disk codec for a Database: the full
// table-name-to-Table-state map is gob-encoded, then the resulting byte
// stream is wrapped in a zstd frame before being written to disk.
//
// Ground: original_source/db_management_system/database/db_manager.py's
// pickle.dump/pickle.load whole-object serialization, reimplemented with
// encoding/gob (the stdlib's whole-object codec, the closest Go idiom to
// pickle) wrapped in github.com/klauspost/compress/zstd, carried over from
// mnohosten-laura-db/pkg/compression/compression.go's AlgorithmZstd default.
package snapshot

import (
	"bytes"
	"encoding/gob"

	"github.com/klauspost/compress/zstd"

	"bplusdb/table"
)

func init() {
	// The table/tree value domain is `any`, populated from JSON decoding at
	// the front-end boundary (see httpapi and replcmd); gob needs every
	// concrete type that might flow through an interface{} registered once
	// up front.
	gob.Register(float64(0))
	gob.Register("")
	gob.Register(false)
	gob.Register([]any(nil))
	gob.Register(map[string]any(nil))
}

// TableStates is the whole-database payload: table name to table state.
type TableStates map[string]table.State

// Encode gob-encodes states and wraps the result in a zstd frame.
func Encode(states TableStates) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(states); err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()

	return enc.EncodeAll(buf.Bytes(), nil), nil
}

// Decode reverses Encode: zstd-decompresses data, then gob-decodes the
// table-state map.
func Decode(data []byte) (TableStates, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}

	var states TableStates
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&states); err != nil {
		return nil, err
	}
	return states, nil
}
