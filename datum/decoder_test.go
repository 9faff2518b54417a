package datum

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/howijd/cryptdatum/endian"
	"github.com/howijd/cryptdatum/errs"
	"github.com/howijd/cryptdatum/format"
	"github.com/howijd/cryptdatum/header"
)

var allCompressions = []format.CompressionAlgorithm{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
	format.CompressionGzip,
}

func mustEncode(t *testing.T, payload []byte, opts ...EncoderOption) []byte {
	t.Helper()

	enc, err := NewEncoder(append([]EncoderOption{WithTimestamp(testTime)}, opts...)...)
	require.NoError(t, err)
	data, err := enc.Encode(payload)
	require.NoError(t, err)

	return data
}

func mustDecode(t *testing.T, data []byte, opts ...DecoderOption) Datum {
	t.Helper()

	dec, err := NewDecoder(data, opts...)
	require.NoError(t, err)
	d, err := dec.Decode()
	require.NoError(t, err)

	return d
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	random := make([]byte, 8192)
	rng.Read(random)

	payloads := map[string][]byte{
		"empty":  nil,
		"byte":   {0x01},
		"text":   bytes.Repeat([]byte("round trip "), 500),
		"random": random,
	}

	for _, alg := range allCompressions {
		t.Run(alg.String(), func(t *testing.T) {
			for name, payload := range payloads {
				t.Run(name, func(t *testing.T) {
					data := mustEncode(t, payload, WithCompression(alg))

					d := mustDecode(t, data)

					require.Equal(t, len(payload), len(d.Payload()))
					if len(payload) > 0 {
						require.Equal(t, payload, d.Payload())
					}
					require.Equal(t, len(data), d.Len())
					require.Nil(t, d.Metadata())
					require.Nil(t, d.Signature())
					require.False(t, d.IsEncrypted())
				})
			}
		})
	}
}

func TestDecode_Sections(t *testing.T) {
	meta := []byte("content-type=text/plain")
	sig := bytes.Repeat([]byte{0x5A}, 64)
	payload := []byte("ciphertext bytes")

	data := mustEncode(t, payload,
		WithMetadata(2, meta),
		WithSignature(format.SignatureEd25519, sig),
		WithEncryption(format.EncryptionAESGCM),
		WithCompression(format.CompressionLZ4),
	)

	d := mustDecode(t, data)

	require.Equal(t, meta, d.Metadata())
	require.Equal(t, uint16(2), d.MetadataSpec())
	require.Equal(t, sig, d.Signature())
	require.Equal(t, payload, d.Payload())
	require.True(t, d.IsEncrypted())
	require.True(t, d.Flags().Has(format.DatumSigned|format.DatumMetadata|format.DatumCompressed))
	require.True(t, testTime.Equal(d.Header().Timestamp()))
}

func TestDecode_EmptyMetadataSection(t *testing.T) {
	d := mustDecode(t, mustEncode(t, []byte("p"), WithMetadata(9, nil)))

	require.Empty(t, d.Metadata())
	require.Equal(t, uint16(9), d.MetadataSpec())
	require.Equal(t, []byte("p"), d.Payload())
}

func TestDecode_ByteOrder(t *testing.T) {
	require.Equal(t, binary.LittleEndian, mustDecode(t, mustEncode(t, []byte("le"))).ByteOrder())
	require.Equal(t, binary.BigEndian, mustDecode(t, mustEncode(t, []byte("be"), WithBigEndian())).ByteOrder())

	le := mustDecode(t, mustEncode(t, []byte("le")))
	be := mustDecode(t, mustEncode(t, []byte("be"), WithBigEndian()))
	require.Equal(t, endian.IsNativeLittleEndian(), le.IsNativeByteOrder())
	require.Equal(t, endian.IsNativeBigEndian(), be.IsNativeByteOrder())
}

func TestDecode_ChecksumMismatch(t *testing.T) {
	data := mustEncode(t, []byte("important payload"))
	data[len(data)-1] ^= 0xFF

	dec, err := NewDecoder(data)
	require.NoError(t, err, "the header is still valid")

	_, err = dec.Decode()
	require.ErrorIs(t, err, errs.ErrChecksumMismatch)

	d := mustDecode(t, data, WithChecksumVerification(false))
	require.Equal(t, byte('d'^0xFF), d.Payload()[len(d.Payload())-1])
}

func TestDecode_TruncatedBody(t *testing.T) {
	data := mustEncode(t, []byte("payload"), WithMetadata(1, []byte("meta")))

	for _, n := range []int{header.HeaderSize, header.HeaderSize + 2, len(data) - 1} {
		dec, err := NewDecoder(data[:n])
		require.NoError(t, err)

		_, err = dec.Decode()
		require.ErrorIs(t, err, errs.ErrInvalidPayloadSize)
	}
}

func TestDecode_TrailingBytesIgnored(t *testing.T) {
	data := mustEncode(t, []byte("payload"))
	withTail := append(bytes.Clone(data), []byte("next datum")...)

	d := mustDecode(t, withTail)

	require.Equal(t, []byte("payload"), d.Payload())
	require.Equal(t, len(data), d.Len())
}

func TestDecode_UnsupportedCompression(t *testing.T) {
	h, err := header.NewV1(format.DatumCompressed, header.V1{
		Timestamp:   header.MagicDate,
		Size:        3,
		Compression: 99,
	})
	require.NoError(t, err)
	data := append(header.Encode(h), "abc"...)

	dec, err := NewDecoder(data)
	require.NoError(t, err)

	_, err = dec.Decode()
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestDecode_CorruptedCompressedPayload(t *testing.T) {
	data := mustEncode(t, bytes.Repeat([]byte("x"), 1000), WithCompression(format.CompressionGzip))
	data[header.HeaderSize] ^= 0xFF

	dec, err := NewDecoder(data, WithChecksumVerification(false))
	require.NoError(t, err)

	_, err = dec.Decode()
	require.Error(t, err)
	require.Contains(t, err.Error(), "decompress")
}

func TestDecode_MinimalHeader(t *testing.T) {
	data := append(header.Encode(header.NewDraft()), "raw draft bytes"...)

	d := mustDecode(t, data)

	require.True(t, d.Header().IsMinimal())
	require.Equal(t, []byte("raw draft bytes"), d.Payload())
	require.Equal(t, len(data), d.Len())
	require.Zero(t, d.MetadataSpec())
}

func TestNewDecoder_InvalidHeader(t *testing.T) {
	data := mustEncode(t, []byte("payload"))

	_, err := NewDecoder(data[:header.HeaderSize-1])
	require.ErrorIs(t, err, errs.ErrTruncatedBuffer)

	bad := bytes.Clone(data)
	bad[0] = 0
	_, err = NewDecoder(bad)
	require.ErrorIs(t, err, errs.ErrMalformedHeader)
	require.ErrorIs(t, err, errs.ErrInvalidMagic)

	t.Run("Flags disagree with fields", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[header.FlagsOffset+7] |= byte(format.DatumOPC)
		require.True(t, header.IsValid(bad))

		_, err := NewDecoder(bad)
		require.ErrorIs(t, err, errs.ErrMalformedHeader)
		require.ErrorIs(t, err, errs.ErrInvalidFlags)
	})

	t.Run("Draft bit with other flags", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[header.FlagsOffset+7] |= byte(format.DatumDraft)

		_, err := NewDecoder(bad)
		require.ErrorIs(t, err, errs.ErrInvalidFlags)
	})
}

func TestDecode_Draft(t *testing.T) {
	payload := []byte("work in progress")
	data := mustEncode(t, payload, WithDraft())

	d := mustDecode(t, data)

	require.Equal(t, format.DatumFlag(header.DraftMarker), d.Flags())
	require.False(t, d.Header().IsMinimal())
	require.Equal(t, payload, d.Payload())
	require.Equal(t, len(data), d.Len())

	r, err := Read(bytes.NewReader(append(bytes.Clone(data), data...)))
	require.NoError(t, err)
	require.Equal(t, payload, r.Payload())
}

func futureVersion(data []byte) []byte {
	out := bytes.Clone(data)
	binary.BigEndian.PutUint16(out[header.VersionOffset:], header.LatestVersion+1)

	return out
}

func TestNewDecoder_UnknownVersion(t *testing.T) {
	payload := []byte("from the future")
	data := futureVersion(mustEncode(t, payload, WithMetadata(4, []byte("m")), WithCompression(format.CompressionS2)))

	t.Run("Logs a warning and decodes", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

		d := mustDecode(t, data, WithDecoderLogger(logger))

		require.Equal(t, payload, d.Payload())
		require.Equal(t, []byte("m"), d.Metadata())
		require.Contains(t, logs.String(), "level=WARN")
		require.Contains(t, logs.String(), "unknown header version")
		require.Contains(t, logs.String(), "version=2")
	})

	t.Run("Strict", func(t *testing.T) {
		_, err := NewDecoder(data, WithStrictVersion())
		require.ErrorIs(t, err, errs.ErrUnknownVersion)
	})

	t.Run("Known version is silent", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		mustDecode(t, mustEncode(t, payload), WithDecoderLogger(logger), WithStrictVersion())
		require.Empty(t, logs.String())
	})
}

func TestEncoder_DebugLog(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mustEncode(t, []byte("logged"), WithLogger(logger))

	require.Contains(t, logs.String(), "encoded datum")
	require.Contains(t, logs.String(), "payload=6")
}

func TestRead(t *testing.T) {
	first := mustEncode(t, []byte("first"), WithCompression(format.CompressionZstd))
	second := mustEncode(t, []byte("second"), WithMetadata(1, []byte("meta")))

	t.Run("Consecutive datums", func(t *testing.T) {
		r := bytes.NewReader(append(bytes.Clone(first), second...))

		d, err := Read(r)
		require.NoError(t, err)
		require.Equal(t, []byte("first"), d.Payload())

		d, err = Read(r)
		require.NoError(t, err)
		require.Equal(t, []byte("second"), d.Payload())
		require.Equal(t, []byte("meta"), d.Metadata())

		_, err = Read(r)
		require.ErrorIs(t, err, io.EOF)
	})

	t.Run("One byte at a time", func(t *testing.T) {
		d, err := Read(iotest.OneByteReader(bytes.NewReader(second)))
		require.NoError(t, err)
		require.Equal(t, []byte("second"), d.Payload())
	})

	t.Run("Stream ends inside header", func(t *testing.T) {
		_, err := Read(bytes.NewReader(first[:10]))
		require.ErrorIs(t, err, errs.ErrTruncatedBuffer)
	})

	t.Run("Stream ends inside body", func(t *testing.T) {
		_, err := Read(bytes.NewReader(second[:len(second)-2]))
		require.ErrorIs(t, err, errs.ErrInvalidPayloadSize)
	})

	t.Run("Body over limit", func(t *testing.T) {
		_, err := Read(bytes.NewReader(second), WithMaxDatumSize(4))
		require.ErrorIs(t, err, errs.ErrInvalidPayloadSize)
	})

	t.Run("Reader error", func(t *testing.T) {
		boom := errors.New("boom")

		_, err := Read(iotest.ErrReader(boom))
		require.ErrorIs(t, err, boom)
	})

	t.Run("Invalid header", func(t *testing.T) {
		_, err := Read(strings.NewReader(strings.Repeat("\xff", header.HeaderSize)))
		require.ErrorIs(t, err, errs.ErrMalformedHeader)
	})

	t.Run("Minimal header has no recorded size", func(t *testing.T) {
		stream := append(header.Encode(header.NewDraft()), "payload"...)

		_, err := Read(bytes.NewReader(stream))
		require.ErrorIs(t, err, errs.ErrInvalidPayloadSize)

		// The slice decoder takes the rest of the buffer instead.
		require.Equal(t, []byte("payload"), mustDecode(t, stream).Payload())
	})
}

func BenchmarkDecoder_Decode(b *testing.B) {
	payload := bytes.Repeat([]byte("benchmark payload "), 1024)

	for _, alg := range allCompressions {
		b.Run(alg.String(), func(b *testing.B) {
			enc, _ := NewEncoder(WithTimestamp(testTime), WithCompression(alg))
			data, err := enc.Encode(payload)
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.SetBytes(int64(len(payload)))
			for b.Loop() {
				dec, err := NewDecoder(data)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := dec.Decode(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
