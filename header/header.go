package header

import (
	"fmt"
	"time"

	"github.com/howijd/cryptdatum/errs"
	"github.com/howijd/cryptdatum/format"
)

// Header is the decoded, immutable form of a Cryptdatum header.
//
// A Header is either minimal (no extension fields, the region between the
// datum-version-marker and the delimiter is zero) or full-featured (Fields
// returns a V1 or Opaque value). Any change requires building a new Header and
// encoding it again.
//
// The zero Header has version 0 and is only produced by failed decodes.
type Header struct {
	version uint16
	flags   format.DatumFlag
	fields  Fields // nil for minimal headers
}

// NewMinimal creates a minimal header carrying only version and flags.
//
// Parameters:
//   - version: Header version, at least MinVersion
//   - flags: Datum-version-marker value
//
// Returns:
//   - Header: The created header
//   - error: ErrInvalidVersion if version is below MinVersion, ErrInvalidFlags
//     for flags that need extension fields
func NewMinimal(version uint16, flags format.DatumFlag) (Header, error) {
	return New(version, flags, nil)
}

// NewDraft creates the minimal draft header of the latest version.
func NewDraft() Header {
	return Header{version: LatestVersion, flags: format.DatumFlag(DraftMarker)}
}

// NewV1 creates a version 1 header with the given flags and fields.
// All-zero fields produce a minimal header.
//
// Returns:
//   - Header: The created header
//   - error: ErrInvalidFlags or ErrInvalidTimestamp when flags and fields disagree
func NewV1(flags format.DatumFlag, fields V1) (Header, error) {
	return New(1, flags, fields)
}

// New creates a header of any version.
//
// Fields must match the version: V1 for versions up to LatestVersion, Opaque
// for newer ones. Nil or all-zero fields produce a minimal header.
//
// The header is checked like Check, so every Header built here encodes to
// bytes that IsValid accepts.
//
// Returns:
//   - Header: The created header
//   - error: ErrInvalidVersion, ErrFieldsVersionMismatch, ErrInvalidFlags or
//     ErrInvalidTimestamp
func New(version uint16, flags format.DatumFlag, fields Fields) (Header, error) {
	if version < MinVersion {
		return Header{}, fmt.Errorf("%w: %d is below %d", errs.ErrInvalidVersion, version, MinVersion)
	}

	h := Header{version: version, flags: flags}
	if fields != nil && !fields.IsZero() {
		if !fields.fitsVersion(version) {
			return Header{}, fmt.Errorf("%w: %T for version %d", errs.ErrFieldsVersionMismatch, fields, version)
		}
		h.fields = fields
	}

	if detail, err := checkRules(h.version, h.flags, h.fields); err != nil {
		return Header{}, fmt.Errorf("%w: %s", err, detail)
	}

	return h, nil
}

// Check verifies that the flags agree with the extension fields.
//
// Validate only looks at the fixed sequences and the marker; Check applies the
// version 1 field rules as well: a timestamp not before MagicDate and every
// feature flag set exactly when its field is. Drafts, compromised datums and
// versions newer than LatestVersion only need a legal marker.
//
// Returns:
//   - error: nil for a consistent header, otherwise ErrMalformedHeader joined with
//     ErrInvalidVersion, ErrInvalidTimestamp or ErrInvalidFlags
func (h Header) Check() error {
	if detail, err := checkRules(h.version, h.flags, h.fields); err != nil {
		return fmt.Errorf("%w: %w: %s", errs.ErrMalformedHeader, err, detail)
	}

	return nil
}

// Version returns the header version.
func (h Header) Version() uint16 {
	return h.version
}

// Flags returns the datum-version-marker.
func (h Header) Flags() format.DatumFlag {
	return h.flags
}

// Fields returns the extension fields, or nil for a minimal header.
func (h Header) Fields() Fields {
	return h.fields
}

// V1 returns the version 1 fields. The second result is false for minimal
// headers and for headers newer than LatestVersion.
func (h Header) V1() (V1, bool) {
	f, ok := h.fields.(V1)
	return f, ok
}

// Layout returns the extension fields read with the version 1 layout.
//
// Minimal headers give the zero V1. For headers newer than LatestVersion the
// result is best-effort: the raw region is read as if it kept the version 1
// layout, which nothing guarantees.
func (h Header) Layout() V1 {
	switch f := h.fields.(type) {
	case V1:
		return f
	case Opaque:
		return f.V1()
	default:
		return V1{}
	}
}

// IsMinimal reports whether the header carries no extension fields.
func (h Header) IsMinimal() bool {
	return h.fields == nil
}

// IsDraft reports whether the datum is a draft.
func (h Header) IsDraft() bool {
	return h.flags.Has(format.DatumDraft)
}

// Timestamp returns the creation time, or the zero time when no timestamp is set.
// Like Layout, it is best-effort for versions newer than LatestVersion.
func (h Header) Timestamp() time.Time {
	f := h.Layout()
	if f.Timestamp == 0 {
		return time.Time{}
	}

	return time.Unix(0, int64(f.Timestamp)) //nolint:gosec // timestamps stay below math.MaxInt64 until year 2262
}

// PayloadOffset returns the byte offset where the payload starts: right after the
// header, metadata and signature sections. Like Layout, it is best-effort for
// versions newer than LatestVersion.
func (h Header) PayloadOffset() int {
	offset := HeaderSize

	f := h.Layout()
	if h.flags.Has(format.DatumMetadata) {
		offset += int(f.MetadataSize)
	}
	if h.flags.Has(format.DatumSigned) {
		offset += int(f.SignatureSize)
	}

	return offset
}

func (h Header) String() string {
	kind := "minimal"
	if h.fields != nil {
		kind = "full"
	}

	return fmt.Sprintf("cryptdatum v%d %s [%s]", h.version, kind, h.flags)
}
