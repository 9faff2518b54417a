package datum

import (
	"github.com/howijd/cryptdatum/endian"
	"github.com/howijd/cryptdatum/format"
	"github.com/howijd/cryptdatum/header"
)

// Datum is a decoded datum.
//
// Metadata and Signature alias the buffer given to the Decoder. Payload aliases
// it too unless the stored payload was compressed.
type Datum struct {
	hdr       header.Header
	metadata  []byte
	signature []byte
	payload   []byte
	size      int
}

// Header returns the datum header.
func (d Datum) Header() header.Header {
	return d.hdr
}

// Flags returns the header flags.
func (d Datum) Flags() format.DatumFlag {
	return d.hdr.Flags()
}

// Metadata returns the metadata section, or nil when the datum has none.
func (d Datum) Metadata() []byte {
	return d.metadata
}

// MetadataSpec returns the identifier of the metadata format, or 0.
func (d Datum) MetadataSpec() uint16 {
	if !d.hdr.Flags().Has(format.DatumMetadata) {
		return 0
	}

	return d.hdr.Layout().MetadataSpec
}

// Signature returns the signature section, or nil when the datum is not signed.
func (d Datum) Signature() []byte {
	return d.signature
}

// Payload returns the decompressed payload. Encrypted payloads are returned as
// stored; see IsEncrypted.
func (d Datum) Payload() []byte {
	return d.payload
}

// IsEncrypted reports whether Payload still has to be decrypted by the caller.
func (d Datum) IsEncrypted() bool {
	return d.hdr.Flags().Has(format.DatumEncrypted)
}

// ByteOrder returns the byte order of multi-byte values inside the payload.
func (d Datum) ByteOrder() endian.EndianEngine {
	return endian.PayloadEngine(d.hdr.Flags())
}

// Len returns the number of input bytes the datum occupies.
func (d Datum) Len() int {
	return d.size
}

// IsNativeByteOrder reports whether the payload byte order matches the host,
// so fixed-width payload values can be read without swapping.
func (d Datum) IsNativeByteOrder() bool {
	return endian.CompareNativeEndian(d.ByteOrder())
}
