// Package tablekey encodes the table layer's mixed int64/string primary key
// domain into a single order-preserving string, so the generic tree package
// (constrained to one cmp.Ordered type parameter) can index it directly.
//
// Ground: Sahilb315-Storage-Engine/bplus-tree/btree.go's convertIntToByte,
// which fixed-width-encodes an int key to a comparable byte string; this
// package generalizes that to a tagged encoding so int64 and string keys can
// coexist in the same tree while sorting int64 keys before string keys
// (an arbitrary but total and documented tie-break, never relied on by any
// spec operation that mixes both key kinds in one range).
package tablekey

import (
	"encoding/binary"
	"fmt"
)

const (
	tagInt64  = 0
	tagString = 1
)

// Key is the single comparable type stored in a table's underlying tree.
// Its only valid values are those produced by Encode.
type Key string

// Encode converts a front-end-normalized key value (int64 or string) into an
// order-preserving Key. It panics on any other dynamic type, since every
// caller in this codebase normalizes before reaching here (see
// httpapi.normalizeKey and replcmd's command parser).
func Encode(v any) Key {
	switch k := v.(type) {
	case int64:
		var buf [9]byte
		buf[0] = tagInt64
		// Flip the sign bit so two's-complement int64 values compare in
		// the same order as byte-wise string comparison.
		binary.BigEndian.PutUint64(buf[1:], uint64(k)^(1<<63))
		return Key(buf[:])
	case string:
		buf := make([]byte, 1+len(k))
		buf[0] = tagString
		copy(buf[1:], k)
		return Key(buf)
	default:
		panic(fmt.Sprintf("tablekey: unsupported key type %T", v))
	}
}

// Decode recovers the dynamic value (int64 or string) an Encode call
// produced, for display and range-result reporting at the table/front-end
// boundary.
func Decode(k Key) any {
	s := string(k)
	if len(s) == 0 {
		panic("tablekey: empty key")
	}
	switch s[0] {
	case tagInt64:
		u := binary.BigEndian.Uint64([]byte(s[1:])) ^ (1 << 63)
		return int64(u)
	case tagString:
		return s[1:]
	default:
		panic(fmt.Sprintf("tablekey: unknown tag byte %d", s[0]))
	}
}

// Normalize parses text arriving from a front-end (HTTP form/JSON, the REPL)
// into the dynamic value Encode expects: an int64 if the text parses as one,
// else the text itself as a string. Ground: app.py's
// "try: key = int(key) except ValueError: pass".
func Normalize(text string) any {
	var n int64
	if _, err := fmt.Sscanf(text, "%d", &n); err == nil && fmt.Sprintf("%d", n) == text {
		return n
	}
	return text
}
