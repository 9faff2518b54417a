package header

import (
	"github.com/howijd/cryptdatum/endian"
	"github.com/howijd/cryptdatum/format"
)

// Fields is the version-gated extension region of a header, stored between the
// datum-version-marker and the delimiter.
//
// The interface is sealed: V1 is the typed layout of every known version and
// Opaque carries the raw region of versions newer than LatestVersion.
type Fields interface {
	// IsZero reports whether the region encodes to all zero bytes.
	IsZero() bool

	put(b []byte)
	fitsVersion(version uint16) bool
}

// V1 is the extension region layout of version 1 headers.
type V1 struct {
	// Timestamp is the creation time in Unix nanoseconds.
	Timestamp uint64 // byte offset 14-21
	// OPC is an operation counter, used to order datums created in the same nanosecond.
	OPC uint32 // byte offset 22-25
	// ChunkSize is the payload chunk size in KiB when the datum is chunked.
	ChunkSize uint16 // byte offset 26-27
	// NetworkID identifies the network the datum belongs to.
	NetworkID uint32 // byte offset 28-31
	// Size is the length of the stored payload in bytes.
	Size uint64 // byte offset 32-39
	// Checksum is the xxHash64 of the stored payload.
	Checksum uint64 // byte offset 40-47

	Compression   format.CompressionAlgorithm // byte offset 48-49
	Encryption    format.EncryptionAlgorithm  // byte offset 50-51
	SignatureType format.SignatureType        // byte offset 52-53
	SignatureSize uint16                      // byte offset 54-55
	MetadataSpec  uint16                      // byte offset 56-57
	MetadataSize  uint32                      // byte offset 58-61
}

var _ Fields = V1{}

func (f V1) IsZero() bool {
	return f == V1{}
}

func (f V1) put(b []byte) {
	engine := endian.HeaderEngine()

	engine.PutUint64(b[TimestampOffset:], f.Timestamp)
	engine.PutUint32(b[OPCOffset:], f.OPC)
	engine.PutUint16(b[ChunkSizeOffset:], f.ChunkSize)
	engine.PutUint32(b[NetworkIDOffset:], f.NetworkID)
	engine.PutUint64(b[SizeOffset:], f.Size)
	engine.PutUint64(b[ChecksumOffset:], f.Checksum)
	engine.PutUint16(b[CompressionOffset:], uint16(f.Compression))
	engine.PutUint16(b[EncryptionOffset:], uint16(f.Encryption))
	engine.PutUint16(b[SignatureTypeOffset:], uint16(f.SignatureType))
	engine.PutUint16(b[SignatureSizeOffset:], f.SignatureSize)
	engine.PutUint16(b[MetadataSpecOffset:], f.MetadataSpec)
	engine.PutUint32(b[MetadataSizeOffset:], f.MetadataSize)
}

func (f V1) fitsVersion(version uint16) bool {
	return version >= MinVersion && version <= LatestVersion
}

func parseV1(b []byte) V1 {
	engine := endian.HeaderEngine()

	return V1{
		Timestamp:     engine.Uint64(b[TimestampOffset:]),
		OPC:           engine.Uint32(b[OPCOffset:]),
		ChunkSize:     engine.Uint16(b[ChunkSizeOffset:]),
		NetworkID:     engine.Uint32(b[NetworkIDOffset:]),
		Size:          engine.Uint64(b[SizeOffset:]),
		Checksum:      engine.Uint64(b[ChecksumOffset:]),
		Compression:   format.CompressionAlgorithm(engine.Uint16(b[CompressionOffset:])),
		Encryption:    format.EncryptionAlgorithm(engine.Uint16(b[EncryptionOffset:])),
		SignatureType: format.SignatureType(engine.Uint16(b[SignatureTypeOffset:])),
		SignatureSize: engine.Uint16(b[SignatureSizeOffset:]),
		MetadataSpec:  engine.Uint16(b[MetadataSpecOffset:]),
		MetadataSize:  engine.Uint32(b[MetadataSizeOffset:]),
	}
}

// Opaque is the raw extension region of a header newer than LatestVersion.
// It is kept verbatim so such headers re-encode byte for byte.
type Opaque [ExtSize]byte

var _ Fields = Opaque{}

func (f Opaque) IsZero() bool {
	return f == Opaque{}
}

func (f Opaque) put(b []byte) {
	copy(b[ExtOffset:DelimiterOffset], f[:])
}

func (f Opaque) fitsVersion(version uint16) bool {
	return version > LatestVersion
}

// V1 reads the region with the version 1 field layout.
func (f Opaque) V1() V1 {
	var b [HeaderSize]byte
	copy(b[ExtOffset:DelimiterOffset], f[:])

	return parseV1(b[:])
}
