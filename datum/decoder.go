package datum

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/howijd/cryptdatum/compress"
	"github.com/howijd/cryptdatum/errs"
	"github.com/howijd/cryptdatum/format"
	"github.com/howijd/cryptdatum/header"
	"github.com/howijd/cryptdatum/internal/hash"
	"github.com/howijd/cryptdatum/internal/options"
)

// Decoder decodes one datum from a byte slice.
//
// Note: The Decoder is NOT thread-safe and is bound to the buffer it was created with.
type Decoder struct {
	data []byte
	hdr  header.Header
	cfg  *DecoderConfig
}

// NewDecoder validates the header at the start of data and prepares decoding.
//
// The header must pass both header.Validate and Header.Check, since the flags
// decide which sections follow it. Sections are not checked until Decode is called.
//
// Returns:
//   - *Decoder: Decoder for data
//   - error: errs.ErrTruncatedBuffer or errs.ErrMalformedHeader for a bad header,
//     errs.ErrUnknownVersion for newer headers with WithStrictVersion
func NewDecoder(data []byte, opts ...DecoderOption) (*Decoder, error) {
	cfg := newDecoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := header.Validate(data); err != nil {
		return nil, err
	}

	hdr, err := header.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := hdr.Check(); err != nil {
		return nil, err
	}

	if err := header.CheckVersion(hdr.Version()); err != nil {
		if cfg.strictVersion {
			return nil, err
		}
		cfg.logger.Warn("decoding datum with unknown header version",
			"version", hdr.Version(),
			"latest", header.LatestVersion,
		)
	}

	return &Decoder{data: data, hdr: hdr, cfg: cfg}, nil
}

// Header returns the validated header.
func (d *Decoder) Header() header.Header {
	return d.hdr
}

// Decode splits the datum into its sections, verifies the checksum and
// decompresses the payload.
//
// A minimal header carries no section sizes, so everything after it is
// returned as the payload as-is.
func (d *Decoder) Decode() (Datum, error) {
	if d.hdr.IsMinimal() {
		return Datum{
			hdr:     d.hdr,
			payload: d.data[header.HeaderSize:],
			size:    len(d.data),
		}, nil
	}

	flags := d.hdr.Flags()
	fields := d.hdr.Layout()

	metaEnd := uint64(header.HeaderSize)
	if flags.Has(format.DatumMetadata) {
		metaEnd += uint64(fields.MetadataSize)
	}
	sigEnd := metaEnd
	if flags.Has(format.DatumSigned) {
		sigEnd += uint64(fields.SignatureSize)
	}
	end := sigEnd + fields.Size
	if end < sigEnd || end > uint64(len(d.data)) {
		return Datum{}, fmt.Errorf("%w: datum needs %d bytes after the header, got %d",
			errs.ErrInvalidPayloadSize, sigEnd-header.HeaderSize+fields.Size, len(d.data)-header.HeaderSize)
	}

	datum := Datum{
		hdr:  d.hdr,
		size: int(end), //nolint:gosec // bounded by len(d.data)
	}
	if flags.Has(format.DatumMetadata) {
		datum.metadata = d.data[header.HeaderSize:metaEnd]
	}
	if flags.Has(format.DatumSigned) {
		datum.signature = d.data[metaEnd:sigEnd]
	}

	stored := d.data[sigEnd:end]

	if d.cfg.verifyChecksum && flags.Has(format.DatumChecksum) && !hash.Verify(stored, fields.Checksum) {
		return Datum{}, fmt.Errorf("%w: header has %#016x, payload hashes to %#016x",
			errs.ErrChecksumMismatch, fields.Checksum, hash.Checksum(stored))
	}

	datum.payload = stored
	if flags.Has(format.DatumCompressed) {
		codec, err := compress.GetCodec(fields.Compression)
		if err != nil {
			return Datum{}, err
		}

		payload, err := codec.Decompress(stored)
		if err != nil {
			return Datum{}, fmt.Errorf("failed to decompress payload: %w", err)
		}
		datum.payload = payload
	}

	return datum, nil
}

// Read reads one complete datum from r and decodes it.
//
// Exactly the bytes of the datum are consumed, so consecutive datums can be read
// from one stream. A clean end of stream before the first header byte returns io.EOF.
//
// A minimal header records no section sizes, so the end of its datum cannot be
// found in a stream; Read rejects it with errs.ErrInvalidPayloadSize.
func Read(r io.Reader, opts ...DecoderOption) (Datum, error) {
	cfg := newDecoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return Datum{}, err
	}

	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return Datum{}, io.EOF
		}

		return Datum{}, fmt.Errorf("read datum: %w", err)
	}

	hdr, err := header.ReadFrom(io.MultiReader(bytes.NewReader(first[:]), r))
	if err != nil {
		return Datum{}, err
	}

	if hdr.IsMinimal() {
		return Datum{}, fmt.Errorf("%w: minimal header records no payload size", errs.ErrInvalidPayloadSize)
	}

	rest := uint64(hdr.PayloadOffset()-header.HeaderSize) + hdr.Layout().Size
	if rest > cfg.maxDatumSize || rest < uint64(hdr.PayloadOffset()-header.HeaderSize) {
		return Datum{}, fmt.Errorf("%w: datum body of %d bytes exceeds limit %d",
			errs.ErrInvalidPayloadSize, rest, cfg.maxDatumSize)
	}

	buf := make([]byte, header.HeaderSize+int(rest)) //nolint:gosec // bounded by maxDatumSize
	copy(buf, header.Encode(hdr))
	if _, err := io.ReadFull(r, buf[header.HeaderSize:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Datum{}, fmt.Errorf("%w: stream ended inside the datum body", errs.ErrInvalidPayloadSize)
		}

		return Datum{}, fmt.Errorf("read datum: %w", err)
	}

	dec, err := NewDecoder(buf, opts...)
	if err != nil {
		return Datum{}, err
	}

	return dec.Decode()
}
