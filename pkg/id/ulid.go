// Package id generates request identifiers.
package id

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strings"
	"time"
)

// ULIDLength is the length of an encoded ULID.
const ULIDLength = 26

const alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// ErrInvalidULID is returned by ULIDTime for malformed input.
var ErrInvalidULID = errors.New("id: invalid ulid")

// NewULID returns a lexicographically sortable identifier: a 48-bit
// millisecond timestamp followed by 80 random bits, in Crockford base32.
func NewULID() string {
	return newULID(time.Now())
}

func newULID(now time.Time) string {
	var raw [16]byte
	ms := uint64(now.UnixMilli())
	binary.BigEndian.PutUint16(raw[0:2], uint16(ms>>32))
	binary.BigEndian.PutUint32(raw[2:6], uint32(ms))
	if _, err := rand.Read(raw[6:]); err != nil {
		binary.BigEndian.PutUint64(raw[6:14], uint64(now.UnixNano()))
	}
	return encode(raw)
}

// encode writes 128 bits as 26 base32 digits, the first holding 3 bits.
func encode(raw [16]byte) string {
	hi := binary.BigEndian.Uint64(raw[:8])
	lo := binary.BigEndian.Uint64(raw[8:])

	var out [ULIDLength]byte
	for i := ULIDLength - 1; i >= 0; i-- {
		out[i] = alphabet[lo&0x1F]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}

// ULIDTime returns the timestamp encoded in a ULID.
func ULIDTime(s string) (time.Time, error) {
	if len(s) != ULIDLength {
		return time.Time{}, ErrInvalidULID
	}
	var ms uint64
	for _, ch := range strings.ToUpper(s[:10]) {
		v := strings.IndexRune(alphabet, ch)
		if v < 0 {
			return time.Time{}, ErrInvalidULID
		}
		ms = ms<<5 | uint64(v)
	}
	return time.UnixMilli(int64(ms)), nil
}
