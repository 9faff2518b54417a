package header

import "github.com/howijd/cryptdatum/format"

const (
	HeaderSize = 64 // fixed header size in bytes, shared by every version

	LatestVersion = 1 // newest header version this package understands and writes
	MinVersion    = 1 // oldest legal header version

	// DraftMarker is the datum-version-marker value of a minimal draft header.
	DraftMarker = uint64(format.DatumDraft)

	// MagicDate is the earliest legal timestamp (Unix nanoseconds) of a non-draft datum.
	MagicDate uint64 = 1652155382000000001
)

// Field offsets and sizes. The extension region spans [ExtOffset, DelimiterOffset).
const (
	MagicOffset   = 0
	MagicSize     = 4
	VersionOffset = 4
	VersionSize   = 2
	FlagsOffset   = 6
	FlagsSize     = 8

	TimestampOffset     = 14
	OPCOffset           = 22
	ChunkSizeOffset     = 26
	NetworkIDOffset     = 28
	SizeOffset          = 32
	ChecksumOffset      = 40
	CompressionOffset   = 48
	EncryptionOffset    = 50
	SignatureTypeOffset = 52
	SignatureSizeOffset = 54
	MetadataSpecOffset  = 56
	MetadataSizeOffset  = 58

	ExtOffset = FlagsOffset + FlagsSize
	ExtSize   = DelimiterOffset - ExtOffset

	DelimiterOffset = HeaderSize - DelimiterSize
	DelimiterSize   = 2
)

var (
	// Magic opens every Cryptdatum header.
	Magic = [MagicSize]byte{0xA7, 0xF6, 0xE5, 0xD4}
	// Delimiter closes every Cryptdatum header and precedes the payload.
	Delimiter = [DelimiterSize]byte{0xA6, 0xE5}
)
