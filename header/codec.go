package header

import (
	"errors"
	"fmt"
	"io"

	"github.com/howijd/cryptdatum/endian"
	"github.com/howijd/cryptdatum/errs"
	"github.com/howijd/cryptdatum/format"
)

// Encode serializes the header into exactly HeaderSize bytes.
//
// Magic and Delimiter are written verbatim, multi-byte fields are big-endian
// and the extension region of a minimal header is zero-filled.
func Encode(h Header) []byte {
	b := make([]byte, HeaderSize)
	h.put(b)

	return b
}

// AppendEncode appends the encoded header to dst and returns the extended slice.
func AppendEncode(dst []byte, h Header) []byte {
	start := len(dst)
	dst = append(dst, make([]byte, HeaderSize)...)
	h.put(dst[start : start+HeaderSize])

	return dst
}

// put writes the header into b, which must be HeaderSize bytes long and zeroed.
func (h Header) put(b []byte) {
	engine := endian.HeaderEngine()

	copy(b[MagicOffset:], Magic[:])
	engine.PutUint16(b[VersionOffset:], h.version)
	engine.PutUint64(b[FlagsOffset:], uint64(h.flags))
	if h.fields != nil {
		h.fields.put(b)
	}
	copy(b[DelimiterOffset:], Delimiter[:])
}

// Decode parses the header at the start of b.
//
// Decode does not check Magic, Delimiter or version consistency, so malformed
// buffers can still be inspected; use Validate or IsValid for that. Bytes past
// HeaderSize are ignored and the returned Header does not reference b.
//
// Returns:
//   - Header: The decoded header
//   - error: ErrTruncatedBuffer if b is shorter than HeaderSize
func Decode(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, need %d", errs.ErrTruncatedBuffer, len(b), HeaderSize)
	}
	b = b[:HeaderSize]

	engine := endian.HeaderEngine()
	h := Header{
		version: engine.Uint16(b[VersionOffset:]),
		flags:   format.DatumFlag(engine.Uint64(b[FlagsOffset:])),
	}

	if isZeroRegion(b[ExtOffset:DelimiterOffset]) {
		return h, nil
	}

	if h.version > LatestVersion {
		var raw Opaque
		copy(raw[:], b[ExtOffset:DelimiterOffset])
		h.fields = raw
	} else {
		h.fields = parseV1(b)
	}

	return h, nil
}

// ReadFrom reads exactly HeaderSize bytes from r, validates them and decodes the header.
//
// Returns:
//   - Header: The decoded header
//   - error: ErrTruncatedBuffer on a short read, a Validate error, or the reader's error
func ReadFrom(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte

	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, fmt.Errorf("%w: read %d bytes, need %d", errs.ErrTruncatedBuffer, n, HeaderSize)
		}

		return Header{}, fmt.Errorf("read header: %w", err)
	}

	if err := Validate(buf[:]); err != nil {
		return Header{}, err
	}

	return Decode(buf[:])
}

func isZeroRegion(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}

	return true
}
