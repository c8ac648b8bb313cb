package directory

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"

	"github.com/cespare/xxhash"
)

// positionSuffixLength is the length of the per-entry suffix appended to
// every position key. Two entries never share a suffix, so their keys never
// compare equal.
const positionSuffixLength = 8

// UniquePosition is a dense, collision free ordering key. Keys compare
// lexicographically; a new key can always be generated before, after or
// between existing keys without touching them.
type UniquePosition struct {
	key []byte
}

// PositionSuffix derives the suffix of an entry from its unique bookmark tag.
func PositionSuffix(tag string) []byte {
	suffix := make([]byte, positionSuffixLength)
	binary.BigEndian.PutUint64(suffix, xxhash.Sum64String(tag))
	return suffix
}

// UniquePositionFromBytes restores a position from its serialized form.
// Malformed input yields an invalid position.
func UniquePositionFromBytes(b []byte) UniquePosition {
	if len(b) <= positionSuffixLength {
		return UniquePosition{}
	}
	return UniquePosition{key: bytes.Clone(b)}
}

// InitialPosition returns the position of the first entry of an empty
// sibling list.
func InitialPosition(suffix []byte) UniquePosition {
	return fromPrefix(between(nil, nil), suffix)
}

// PositionFromInt64 converts a legacy integer position into a unique
// position that preserves the integer ordering.
func PositionFromInt64(x int64, suffix []byte) UniquePosition {
	prefix := make([]byte, 8)
	binary.BigEndian.PutUint64(prefix, uint64(x)^(1<<63))
	// a prefix ending with a zero byte would leave no room before its
	// successors, so pad it.
	if prefix[7] == 0 {
		prefix = append(prefix, 0x80)
	}
	return fromPrefix(prefix, suffix)
}

// PositionBefore returns a position that sorts before x.
func PositionBefore(x UniquePosition, suffix []byte) UniquePosition {
	if !x.IsValid() {
		return InitialPosition(suffix)
	}
	return fromPrefix(between([]byte{}, x.key), suffix)
}

// PositionAfter returns a position that sorts after x.
func PositionAfter(x UniquePosition, suffix []byte) UniquePosition {
	if !x.IsValid() {
		return InitialPosition(suffix)
	}
	return fromPrefix(between(x.key, nil), suffix)
}

// PositionBetween returns a position strictly between before and after.
func PositionBetween(before, after UniquePosition, suffix []byte) UniquePosition {
	switch {
	case !before.IsValid():
		return PositionBefore(after, suffix)
	case !after.IsValid() || before.Compare(after) >= 0:
		return PositionAfter(before, suffix)
	}
	return fromPrefix(between(before.key, after.key), suffix)
}

func fromPrefix(prefix, suffix []byte) UniquePosition {
	key := make([]byte, 0, len(prefix)+len(suffix))
	key = append(key, prefix...)
	key = append(key, suffix...)
	return UniquePosition{key: key}
}

// between returns k with a < k < b. A nil b means +infinity. The result
// never ends with a zero byte and is never a prefix of b, so any suffix
// appended to it keeps the ordering.
func between(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+1)
	bounded := b != nil
	for i := 0; ; i++ {
		ai := 0
		if i < len(a) {
			ai = int(a[i])
		}
		bi := math.MaxUint8 + 1
		if bounded {
			if i >= len(b) {
				// b is a prefix of a: no key fits, fall back to after a.
				return between(a, nil)
			}
			bi = int(b[i])
		}

		switch {
		case ai == bi:
			out = append(out, byte(ai))
		case bi-ai > 1:
			return append(out, byte((ai+bi)/2))
		default:
			out = append(out, byte(ai))
			bounded = false
		}
	}
}

// IsValid reports whether p holds a usable key.
func (p UniquePosition) IsValid() bool {
	return len(p.key) > positionSuffixLength
}

// Compare orders two positions like bytes.Compare.
func (p UniquePosition) Compare(other UniquePosition) int {
	return bytes.Compare(p.key, other.key)
}

// LessThan reports whether p sorts before other.
func (p UniquePosition) LessThan(other UniquePosition) bool {
	return p.Compare(other) < 0
}

// Equals reports whether p and other are the same key.
func (p UniquePosition) Equals(other UniquePosition) bool {
	return bytes.Equal(p.key, other.key)
}

// Bytes returns a copy of the serialized key.
func (p UniquePosition) Bytes() []byte {
	return bytes.Clone(p.key)
}

func (p UniquePosition) String() string {
	if !p.IsValid() {
		return "INVALID"
	}
	return hex.EncodeToString(p.key)
}

// MarshalJSON encodes the key as base64.
func (p UniquePosition) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.key)
}

// UnmarshalJSON decodes a base64 key.
func (p *UniquePosition) UnmarshalJSON(b []byte) error {
	var key []byte
	if err := json.Unmarshal(b, &key); err != nil {
		return err
	}
	*p = UniquePositionFromBytes(key)
	return nil
}
