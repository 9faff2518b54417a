// Package header defines the binary layout of the Cryptdatum header and the
// functions to encode, decode and validate it.
//
// Every datum starts with a fixed 64-byte header followed by optional metadata,
// an optional signature and the payload. The header identifies the format, its
// version and the features the payload uses, before any payload byte is read.
//
// # Header Format
//
// All multi-byte fields are big-endian:
//
//	Bytes  | Field          | Type   | Description
//	-------|----------------|--------|---------------------------------------
//	0-3    | Magic          | [4]byte| A7 F6 E5 D4
//	4-5    | Version        | uint16 | header version, >= 1
//	6-13   | Flags          | uint64 | datum-version-marker (format.DatumFlag)
//	14-21  | Timestamp      | uint64 | Unix nanoseconds
//	22-25  | OPC            | uint32 | operation counter
//	26-27  | ChunkSize      | uint16 | chunk size in KiB
//	28-31  | NetworkID      | uint32 | network identifier
//	32-39  | Size           | uint64 | stored payload length
//	40-47  | Checksum       | uint64 | xxHash64 of the stored payload
//	48-49  | Compression    | uint16 | format.CompressionAlgorithm
//	50-51  | Encryption     | uint16 | format.EncryptionAlgorithm
//	52-53  | SignatureType  | uint16 | format.SignatureType
//	54-55  | SignatureSize  | uint16 | signature section length
//	56-57  | MetadataSpec   | uint16 | metadata format identifier
//	58-61  | MetadataSize   | uint32 | metadata section length
//	62-63  | Delimiter      | [2]byte| A6 E5
//
// Bytes 14-61 form the extension region. A minimal header leaves it zero; a
// full-featured header populates it.
//
// # Versions
//
// A Header is a tagged variant keyed by version. Headers up to LatestVersion
// expose their extension region as V1; newer headers keep it as Opaque bytes so
// they survive a decode/encode cycle unchanged. FeaturesFor tells which fields
// are meaningful for a version and Header.Present narrows that by the flags:
//
//	h, _ := header.Decode(buf)
//	if h.Present().Has(header.FieldChecksum) {
//	    f, _ := h.V1()
//	    verify(payload, f.Checksum)
//	}
//
// # Validation
//
// Validation has two levels.
//
// IsValid is the cheap structural gate to run before touching the payload. It
// checks, in order and stopping at the first failure: length, Magic, Delimiter,
// a version of at least MinVersion, and draft consistency (a header with
// format.DatumDraft set carries exactly DraftMarker). It never reads the
// extension region, so headers of unknown versions pass. Validate runs the same
// checks and reports why a buffer is rejected.
//
// Header.Check applies the version 1 field rules on top: a timestamp not before
// MagicDate and every feature flag set exactly when its field is. Drafts,
// compromised datums and unknown versions skip them. The constructors run the
// same rules, so any Header built by New encodes to a valid buffer:
//
//	if !header.IsValid(buf) {
//	    return errNotADatum
//	}
//	h, _ := header.Decode(buf)
//	if err := h.Check(); err != nil {
//	    return err
//	}
//
// Decode never validates, so tooling can inspect broken headers.
//
// # Thread Safety
//
// Every function in this package is pure and safe for concurrent use. A Header
// is an immutable value and does not reference the buffer it was decoded from.
package header
