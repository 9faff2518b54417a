package header

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/howijd/cryptdatum/format"
)

const (
	minimalFixture = "valid-minimal-header.cdt"
	fullFixture    = "valid-full-featured-header.cdt"
)

// fullFlags and fullFields describe testdata/v1/valid-full-featured-header.cdt.
const fullFlags = format.DatumChecksum | format.DatumOPC | format.DatumCompressed |
	format.DatumEncrypted | format.DatumExtractable | format.DatumSigned |
	format.DatumChunked | format.DatumMetadata | format.DatumNetwork

func fullFields() V1 {
	return V1{
		Timestamp:     1700000000000000000,
		OPC:           2,
		ChunkSize:     4,
		NetworkID:     7,
		Size:          1024,
		Checksum:      0x0123456789ABCDEF,
		Compression:   format.CompressionZstd,
		Encryption:    format.EncryptionXChaCha20Poly,
		SignatureType: format.SignatureEd25519,
		SignatureSize: 64,
		MetadataSpec:  1,
		MetadataSize:  32,
	}
}

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "v1", name))
	require.NoError(t, err)
	require.Len(t, data, HeaderSize)

	return data
}

// mustV1 builds a version 1 header that must satisfy the field rules.
func mustV1(t *testing.T, flags format.DatumFlag, fields V1) Header {
	t.Helper()

	h, err := NewV1(flags, fields)
	require.NoError(t, err)

	return h
}

// rawHeader bypasses the constructor checks to build headers the constructors reject.
func rawHeader(version uint16, flags format.DatumFlag, fields Fields) Header {
	h := Header{version: version, flags: flags}
	if fields != nil && !fields.IsZero() {
		h.fields = fields
	}

	return h
}

// referenceValid restates the structural rules on decoded values instead of raw
// offsets, so it can cross-check IsValid.
func referenceValid(b []byte) bool {
	if len(b) < HeaderSize {
		return false
	}
	if !bytes.Equal(b[:4], Magic[:]) || !bytes.Equal(b[62:64], Delimiter[:]) {
		return false
	}

	h, err := Decode(b)
	if err != nil {
		return false
	}
	if h.Version() < MinVersion {
		return false
	}

	return h.Flags()&format.DatumDraft == 0 || uint64(h.Flags()) == DraftMarker
}

// referenceConsistent restates the field rules of Header.Check.
func referenceConsistent(h Header) bool {
	if h.Version() < MinVersion {
		return false
	}

	flags := h.Flags()
	if flags&format.DatumDraft != 0 {
		return uint64(flags) == DraftMarker
	}
	if h.Version() > LatestVersion || flags&format.DatumCompromised != 0 {
		return true
	}

	f, ok := h.V1()
	if !ok {
		return flags&fieldFlags == 0
	}

	iff := func(flag format.DatumFlag, set bool) bool {
		return (flags&flag != 0) == set
	}

	switch {
	case f.Timestamp < MagicDate:
		return false
	case !iff(format.DatumOPC, f.OPC > 0),
		!iff(format.DatumChunked, f.ChunkSize > 0),
		!iff(format.DatumNetwork, f.NetworkID > 0),
		!iff(format.DatumEmpty, f.Size == 0),
		!iff(format.DatumChecksum, f.Checksum > 0),
		!iff(format.DatumSigned, f.SignatureType > 0):
		return false
	case flags&format.DatumCompressed != 0 && f.Compression == 0,
		flags&format.DatumEncrypted != 0 && f.Encryption == 0:
		return false
	case flags&format.DatumMetadata != 0:
		return f.MetadataSpec > 0
	default:
		return f.MetadataSpec == 0 && f.MetadataSize == 0
	}
}

func randomV1(rng *rand.Rand) V1 {
	return V1{
		Timestamp:     rng.Uint64(),
		OPC:           rng.Uint32(),
		ChunkSize:     uint16(rng.Intn(1 << 16)),
		NetworkID:     rng.Uint32(),
		Size:          rng.Uint64(),
		Checksum:      rng.Uint64(),
		Compression:   format.CompressionAlgorithm(rng.Intn(1 << 16)),
		Encryption:    format.EncryptionAlgorithm(rng.Intn(1 << 16)),
		SignatureType: format.SignatureType(rng.Intn(1 << 16)),
		SignatureSize: uint16(rng.Intn(1 << 16)),
		MetadataSpec:  uint16(rng.Intn(1 << 16)),
		MetadataSize:  rng.Uint32(),
	}
}

// randomConsistentV1 returns version 1 fields with the flags the field rules demand.
func randomConsistentV1(rng *rand.Rand) (format.DatumFlag, V1) {
	f := randomV1(rng)
	f.Timestamp = MagicDate + rng.Uint64()%(1<<60)

	drop := func() bool { return rng.Intn(2) == 0 }
	if drop() {
		f.OPC = 0
	}
	if drop() {
		f.ChunkSize = 0
	}
	if drop() {
		f.NetworkID = 0
	}
	if drop() {
		f.Size = 0
	}
	if drop() {
		f.Checksum = 0
	}
	if drop() {
		f.SignatureType, f.SignatureSize = 0, 0
	}
	if drop() {
		f.MetadataSpec, f.MetadataSize = 0, 0
	}

	var flags format.DatumFlag
	set := func(flag format.DatumFlag, on bool) {
		if on {
			flags |= flag
		}
	}
	set(format.DatumOPC, f.OPC != 0)
	set(format.DatumChunked, f.ChunkSize != 0)
	set(format.DatumNetwork, f.NetworkID != 0)
	set(format.DatumEmpty, f.Size == 0)
	set(format.DatumChecksum, f.Checksum != 0)
	set(format.DatumSigned, f.SignatureType != 0)
	set(format.DatumMetadata, f.MetadataSpec != 0)
	set(format.DatumCompressed, f.Compression != 0 && drop())
	set(format.DatumEncrypted, f.Encryption != 0 && drop())
	set(format.DatumExtractable, drop())
	set(format.DatumBigEndian, drop())

	return flags, f
}

func randomOpaque(rng *rand.Rand) Opaque {
	var o Opaque
	_, _ = rng.Read(o[:])

	return o
}

// randomHeader returns a header of version 1..3 built through New.
func randomHeader(t *testing.T, rng *rand.Rand) Header {
	t.Helper()

	version := uint16(1 + rng.Intn(3))

	var (
		flags  format.DatumFlag
		fields Fields
	)
	switch {
	case rng.Intn(5) == 0:
		flags = format.DatumFlag(DraftMarker)
		if version <= LatestVersion {
			fields = randomV1(rng)
		} else {
			fields = randomOpaque(rng)
		}
	case rng.Intn(4) == 0:
		flags = format.DatumFlag(rng.Uint64()) &^ (format.DatumDraft | fieldFlags)
	case version <= LatestVersion:
		flags, fields = randomConsistentV1(rng)
		if rng.Intn(8) == 0 {
			flags |= format.DatumCompromised
		}
	default:
		flags = format.DatumFlag(rng.Uint64()) &^ format.DatumDraft
		fields = randomOpaque(rng)
	}

	h, err := New(version, flags, fields)
	require.NoError(t, err)

	return h
}
