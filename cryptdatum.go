// Package cryptdatum implements the Cryptdatum binary container: a fixed
// 64-byte self-describing header followed by optional metadata, signature and
// payload sections.
//
// # Core Features
//
//   - Constant-size header validation without allocation
//   - Versioned header layout with forward-compatible decoding
//   - Optional payload compression (Zstd, S2, LZ4, Gzip)
//   - xxHash64 payload checksums
//   - Metadata and signature sections, operation counters, network ids
//
// # Basic Usage
//
// Checking and decoding a header:
//
//	if !cryptdatum.HasValidHeader(data) {
//	    return errors.New("not a cryptdatum")
//	}
//	h, _ := cryptdatum.DecodeHeader(data)
//	fmt.Println(h.Version(), h.Flags(), h.Timestamp())
//
// Encoding and decoding a datum:
//
//	data, err := cryptdatum.Encode(payload, datum.WithCompression(format.CompressionZstd))
//	...
//	d, err := cryptdatum.Decode(data)
//	fmt.Printf("%s\n", d.Payload())
//
// # Package Structure
//
// This package holds thin wrappers over the header and datum packages for the
// common cases. Use those packages directly for streaming, strict version
// handling or finer control over errors.
package cryptdatum

import (
	"io"

	"github.com/howijd/cryptdatum/datum"
	"github.com/howijd/cryptdatum/format"
	"github.com/howijd/cryptdatum/header"
	"github.com/howijd/cryptdatum/internal/options"
)

// HeaderSize is the size of every Cryptdatum header in bytes.
const HeaderSize = header.HeaderSize

var defaultEncoderOptions = options.Join(
	datum.WithChecksum(true),
	datum.WithCompression(format.CompressionZstd),
)

// HasHeader reports whether data starts with the magic and delimiter of a
// Cryptdatum header. It does not check the header fields.
func HasHeader(data []byte) bool {
	return header.HasHeader(data)
}

// HasValidHeader reports whether data starts with a valid Cryptdatum header.
func HasValidHeader(data []byte) bool {
	return header.IsValid(data)
}

// EncodeHeader returns the 64-byte encoding of h.
func EncodeHeader(h header.Header) []byte {
	return header.Encode(h)
}

// DecodeHeader decodes the header at the start of data without validating it.
//
// Use HasValidHeader first, or header.Validate for the reason a header is rejected.
func DecodeHeader(data []byte) (header.Header, error) {
	return header.Decode(data)
}

// NewEncoder creates a datum encoder.
//
// Without options the encoder writes an uncompressed payload with a checksum.
func NewEncoder(opts ...datum.EncoderOption) (*datum.Encoder, error) {
	return datum.NewEncoder(opts...)
}

// NewDefaultEncoder creates a datum encoder that compresses payloads with Zstd
// and checksums them.
func NewDefaultEncoder(opts ...datum.EncoderOption) (*datum.Encoder, error) {
	return datum.NewEncoder(append([]datum.EncoderOption{defaultEncoderOptions}, opts...)...)
}

// NewDecoder creates a decoder for the datum at the start of data.
func NewDecoder(data []byte, opts ...datum.DecoderOption) (*datum.Decoder, error) {
	return datum.NewDecoder(data, opts...)
}

// Encode builds one datum around payload.
func Encode(payload []byte, opts ...datum.EncoderOption) ([]byte, error) {
	enc, err := datum.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(payload)
}

// Decode decodes the datum at the start of data.
func Decode(data []byte, opts ...datum.DecoderOption) (datum.Datum, error) {
	dec, err := datum.NewDecoder(data, opts...)
	if err != nil {
		return datum.Datum{}, err
	}

	return dec.Decode()
}

// Read reads and decodes the next datum from r.
func Read(r io.Reader, opts ...datum.DecoderOption) (datum.Datum, error) {
	return datum.Read(r, opts...)
}
