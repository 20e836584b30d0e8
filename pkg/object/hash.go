package object

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pjbgf/sha1cd"
)

const (
	// HashLen is the length of a hex-encoded object id.
	HashLen = 40
	// RawHashLen is the length of a binary object id inside tree entries.
	RawHashLen = 20
	// ShortHashLen is the length of the abbreviated display form.
	ShortHashLen = 7
)

// Short returns the abbreviated form used for display.
func (h Hash) Short() string {
	if len(h) <= ShortHashLen {
		return string(h)
	}
	return string(h[:ShortHashLen])
}

func (h Hash) String() string { return string(h) }

// IsHash reports whether s is a full 40-character lowercase hex object id.
func IsHash(s string) bool {
	return len(s) == HashLen && isLowerHex(s)
}

// ParseHash validates s as a full object id. Surrounding whitespace is
// trimmed and upper-case hex is folded to lower case.
func ParseHash(s string) (Hash, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !IsHash(s) {
		return "", fmt.Errorf("parse hash %q: %w", s, ErrMalformed)
	}
	return Hash(s), nil
}

// HashFromBytes renders a 20-byte binary id as lowercase hex.
func HashFromBytes(raw []byte) Hash {
	return Hash(hex.EncodeToString(raw))
}

// HashObject computes the SHA-1 of the envelope "type len\0content", which
// is the id Git assigns the object. The second result reports whether the
// collision detector flagged the input.
func HashObject(objType ObjectType, data []byte) (Hash, bool) {
	return hashEnvelope(envelope(objType, data))
}

func hashEnvelope(raw []byte) (Hash, bool) {
	sum, collision := sha1cd.Sum(raw)
	return HashFromBytes(sum[:]), collision
}

func envelope(objType ObjectType, data []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := make([]byte, 0, len(header)+len(data))
	raw = append(raw, header...)
	return append(raw, data...)
}

func isLowerHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
