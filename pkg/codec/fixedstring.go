package codec

import "github.com/cockroachdb/errors"

// FixedString is a KeyCodec/ValueCodec over fixed-width ASCII strings,
// the key/value shape used throughout spec.md's test scenarios
// (8-byte keys like "00000001", 8-byte values like "00001000").
// Strings shorter than Width are not accepted: the caller is expected to
// pad, matching the "round-trip encodable" contract rather than the
// codec silently padding on their behalf.
type FixedString struct {
	width int
}

// NewFixedString returns a codec for strings of exactly width bytes.
func NewFixedString(width int) FixedString {
	if width <= 0 {
		panic(errors.AssertionFailedf("codec: fixed string width must be positive, got %d", width))
	}
	return FixedString{width: width}
}

func (c FixedString) Width() int { return c.width }

func (c FixedString) Encode(w []byte, pos int, v string) {
	if len(v) != c.width {
		panic(errors.AssertionFailedf("codec: fixed string length mismatch: want %d, got %d", c.width, len(v)))
	}
	copy(w[pos:pos+c.width], v)
}

func (c FixedString) Decode(r []byte, pos int) string {
	return string(r[pos : pos+c.width])
}

func (c FixedString) Compare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (c FixedString) DebugString(v string) string {
	return v
}
