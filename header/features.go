package header

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/howijd/cryptdatum/errs"
	"github.com/howijd/cryptdatum/format"
)

// FieldTag identifies one header field.
type FieldTag uint32

// FieldSet is a set of FieldTag values.
type FieldSet uint32

const (
	FieldMagic FieldTag = 1 << iota
	FieldVersion
	FieldFlags
	FieldTimestamp
	FieldOPC
	FieldChunkSize
	FieldNetworkID
	FieldSize
	FieldChecksum
	FieldCompression
	FieldEncryption
	FieldSignatureType
	FieldSignatureSize
	FieldMetadataSpec
	FieldMetadataSize
	FieldDelimiter
	// FieldUnknown marks fields of a version newer than LatestVersion. Callers
	// seeing it should treat the extension region conservatively.
	FieldUnknown
)

var fieldNames = [...]string{
	"magic",
	"version",
	"flags",
	"timestamp",
	"opc",
	"chunk-size",
	"network-id",
	"size",
	"checksum",
	"compression",
	"encryption",
	"signature-type",
	"signature-size",
	"metadata-spec",
	"metadata-size",
	"delimiter",
	"unknown",
}

const (
	coreFields = FieldSet(FieldMagic | FieldVersion | FieldFlags | FieldDelimiter)
	v1Fields   = FieldSet(FieldTimestamp | FieldOPC | FieldChunkSize | FieldNetworkID | FieldSize |
		FieldChecksum | FieldCompression | FieldEncryption | FieldSignatureType | FieldSignatureSize |
		FieldMetadataSpec | FieldMetadataSize)
)

// Has reports whether tag is in the set.
func (s FieldSet) Has(tag FieldTag) bool {
	return s&FieldSet(tag) != 0
}

// With returns the set extended with tag.
func (s FieldSet) With(tag FieldTag) FieldSet {
	return s | FieldSet(tag)
}

// Without returns the set with tag removed.
func (s FieldSet) Without(tag FieldTag) FieldSet {
	return s &^ FieldSet(tag)
}

// Len returns the number of tags in the set.
func (s FieldSet) Len() int {
	return bits.OnesCount32(uint32(s))
}

func (s FieldSet) String() string {
	if s == 0 {
		return "none"
	}

	names := make([]string, 0, s.Len())
	for rest := uint32(s); rest != 0; {
		bit := bits.TrailingZeros32(rest)
		rest &^= 1 << bit
		names = append(names, FieldTag(1<<bit).String())
	}

	return strings.Join(names, ",")
}

func (t FieldTag) String() string {
	if t == 0 || t&(t-1) != 0 {
		return fmt.Sprintf("FieldTag(%#x)", uint32(t))
	}
	if bit := bits.TrailingZeros32(uint32(t)); bit < len(fieldNames) {
		return fieldNames[bit]
	}

	return fmt.Sprintf("FieldTag(%#x)", uint32(t))
}

// FeaturesFor returns the fields that are meaningful in a header of the given version.
//
// Version 0 only has the fields every header shares. Known versions add their
// extension fields. Versions newer than LatestVersion keep the known fields and
// add FieldUnknown; they are still structurally valid.
func FeaturesFor(version uint16) FieldSet {
	switch {
	case version < MinVersion:
		return coreFields
	case version <= LatestVersion:
		return coreFields | v1Fields
	default:
		return coreFields | v1Fields | FieldSet(FieldUnknown)
	}
}

// CheckVersion reports whether version is one this package fully understands.
//
// Returns:
//   - error: nil for known versions, ErrInvalidVersion below MinVersion, or the
//     advisory ErrUnknownVersion above LatestVersion
func CheckVersion(version uint16) error {
	switch {
	case version < MinVersion:
		return fmt.Errorf("%w: %d is below %d", errs.ErrInvalidVersion, version, MinVersion)
	case version > LatestVersion:
		return fmt.Errorf("%w: %d, latest known is %d", errs.ErrUnknownVersion, version, LatestVersion)
	default:
		return nil
	}
}

// flagGated maps optional fields to the flag that puts them in use.
var flagGated = [...]struct {
	tag  FieldTag
	flag format.DatumFlag
}{
	{FieldOPC, format.DatumOPC},
	{FieldChunkSize, format.DatumChunked},
	{FieldNetworkID, format.DatumNetwork},
	{FieldChecksum, format.DatumChecksum},
	{FieldCompression, format.DatumCompressed},
	{FieldEncryption, format.DatumEncrypted},
	{FieldSignatureType, format.DatumSigned},
	{FieldSignatureSize, format.DatumSigned},
	{FieldMetadataSpec, format.DatumMetadata},
	{FieldMetadataSize, format.DatumMetadata},
}

// Present returns the fields that are semantically in use in h: the version gate
// of FeaturesFor narrowed by the flags. Timestamp and Size count as present when
// they hold a value.
func (h Header) Present() FieldSet {
	set := FeaturesFor(h.version)
	if h.fields == nil {
		return set &^ v1Fields
	}

	for _, g := range flagGated {
		if !h.flags.Has(g.flag) {
			set = set.Without(g.tag)
		}
	}

	f, ok := h.V1()
	if !ok {
		return set
	}
	if f.Timestamp == 0 {
		set = set.Without(FieldTimestamp)
	}
	if f.Size == 0 || h.flags.Has(format.DatumEmpty) {
		set = set.Without(FieldSize)
	}

	return set
}
