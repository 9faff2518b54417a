package header

import (
	"fmt"

	"github.com/howijd/cryptdatum/endian"
	"github.com/howijd/cryptdatum/errs"
	"github.com/howijd/cryptdatum/format"
)

// HasHeader reports whether b starts with a structurally present header: it is
// at least HeaderSize bytes long and carries Magic and Delimiter at their fixed
// offsets. Field values are not inspected.
func HasHeader(b []byte) bool {
	if len(b) < HeaderSize {
		return false
	}

	return [MagicSize]byte(b[MagicOffset:MagicOffset+MagicSize]) == Magic &&
		[DelimiterSize]byte(b[DelimiterOffset:HeaderSize]) == Delimiter
}

// IsValid reports whether b starts with a structurally valid Cryptdatum header:
// at least HeaderSize bytes, Magic and Delimiter in place, a legal version and a
// consistent draft marker. Extension fields are not inspected, so the check
// costs the same for every version. Versions newer than LatestVersion are valid.
//
// It is the cheap gate to run before any payload processing and never fails:
// every failure reason collapses to false. Use Validate to learn the reason and
// Header.Check for the extension field rules.
func IsValid(b []byte) bool {
	_, reason := check(b)
	return reason == nil
}

// Validate checks b like IsValid and returns the reason it is not a valid header.
//
// Returns:
//   - error: nil for a valid header, ErrTruncatedBuffer for short input, otherwise
//     ErrMalformedHeader joined with ErrInvalidMagic, ErrInvalidDelimiter,
//     ErrInvalidVersion or ErrInvalidFlags
func Validate(b []byte) error {
	detail, reason := check(b)
	switch reason {
	case nil:
		return nil
	case errs.ErrTruncatedBuffer:
		return fmt.Errorf("%w: got %d bytes, need %d", reason, len(b), HeaderSize)
	default:
		return fmt.Errorf("%w: %w: %s", errs.ErrMalformedHeader, reason, detail)
	}
}

// check runs the structural steps in order and stops at the first failure.
// It returns a static detail and a sentinel so IsValid does not allocate.
func check(b []byte) (string, error) {
	if len(b) < HeaderSize {
		return "", errs.ErrTruncatedBuffer
	}
	if [MagicSize]byte(b[MagicOffset:MagicOffset+MagicSize]) != Magic {
		return "magic mismatch", errs.ErrInvalidMagic
	}
	if [DelimiterSize]byte(b[DelimiterOffset:HeaderSize]) != Delimiter {
		return "delimiter mismatch", errs.ErrInvalidDelimiter
	}

	engine := endian.HeaderEngine()

	return checkMarker(engine.Uint16(b[VersionOffset:]), format.DatumFlag(engine.Uint64(b[FlagsOffset:])))
}

// checkMarker verifies the version and the draft consistency of the
// datum-version-marker: a draft carries DraftMarker and nothing else.
func checkMarker(version uint16, flags format.DatumFlag) (string, error) {
	if version < MinVersion {
		return "version below minimum", errs.ErrInvalidVersion
	}
	if flags.Has(format.DatumDraft) && uint64(flags) != DraftMarker {
		return "draft marker with other flags", errs.ErrInvalidFlags
	}

	return "", nil
}

// fieldFlags need a backing extension field.
const fieldFlags = format.DatumOPC | format.DatumChunked | format.DatumNetwork | format.DatumChecksum |
	format.DatumCompressed | format.DatumEncrypted | format.DatumSigned | format.DatumMetadata

// checkRules applies the marker checks and then the version 1 field rules.
//
// Drafts, compromised datums and versions newer than LatestVersion stop after
// the marker checks. A minimal header has no fields, so it may not carry flags
// that need one.
func checkRules(version uint16, flags format.DatumFlag, fields Fields) (string, error) {
	if detail, err := checkMarker(version, flags); err != nil {
		return detail, err
	}
	if version > LatestVersion || flags.Any(format.DatumDraft|format.DatumCompromised) {
		return "", nil
	}

	f, ok := fields.(V1)
	if !ok {
		if flags.Any(fieldFlags) {
			return "field flags on minimal header", errs.ErrInvalidFlags
		}

		return "", nil
	}

	return checkV1(flags, f)
}

func checkV1(flags format.DatumFlag, f V1) (string, error) {
	switch {
	case f.Timestamp < MagicDate:
		return "timestamp before magic date", errs.ErrInvalidTimestamp
	case flags.Has(format.DatumOPC) != (f.OPC != 0):
		return "opc", errs.ErrInvalidFlags
	case flags.Has(format.DatumChunked) != (f.ChunkSize != 0):
		return "chunk size", errs.ErrInvalidFlags
	case flags.Has(format.DatumNetwork) != (f.NetworkID != 0):
		return "network id", errs.ErrInvalidFlags
	case flags.Has(format.DatumEmpty) != (f.Size == 0):
		return "size", errs.ErrInvalidFlags
	case flags.Has(format.DatumChecksum) != (f.Checksum != 0):
		return "checksum", errs.ErrInvalidFlags
	case flags.Has(format.DatumCompressed) && f.Compression == format.CompressionNone:
		return "compression algorithm", errs.ErrInvalidFlags
	case flags.Has(format.DatumEncrypted) && f.Encryption == format.EncryptionNone:
		return "encryption algorithm", errs.ErrInvalidFlags
	case flags.Has(format.DatumSigned) != (f.SignatureType != format.SignatureNone):
		return "signature type", errs.ErrInvalidFlags
	case flags.Has(format.DatumMetadata) && f.MetadataSpec == 0:
		return "metadata spec", errs.ErrInvalidFlags
	case !flags.Has(format.DatumMetadata) && (f.MetadataSpec != 0 || f.MetadataSize != 0):
		return "metadata", errs.ErrInvalidFlags
	}

	return "", nil
}
