package datum

import (
	"bytes"
	"fmt"
	"time"

	"github.com/howijd/cryptdatum/compress"
	"github.com/howijd/cryptdatum/format"
	"github.com/howijd/cryptdatum/header"
	"github.com/howijd/cryptdatum/internal/hash"
	"github.com/howijd/cryptdatum/internal/options"
	"github.com/howijd/cryptdatum/internal/pool"
)

// Encoder assembles datums: a version 1 header followed by the optional
// metadata and signature sections and the stored payload.
//
// The configuration is fixed at construction, so one Encoder can produce any
// number of datums and is safe for concurrent use.
type Encoder struct {
	cfg   *EncoderConfig
	codec compress.Codec
}

// NewEncoder creates an Encoder from opts.
//
// Returns:
//   - *Encoder: Encoder ready to produce datums
//   - error: ErrInvalidOption (possibly joined with a more specific error) for
//     invalid or conflicting options
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	cfg := newEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	return &Encoder{cfg: cfg, codec: codec}, nil
}

// Encode builds one datum around payload.
//
// The payload is compressed with the configured algorithm; Size and Checksum in
// the header describe the stored bytes. An empty payload sets format.DatumEmpty
// and is stored uncompressed.
//
// The returned slice is owned by the caller. payload is not modified.
func (e *Encoder) Encode(payload []byte) ([]byte, error) {
	stored := payload
	compression := format.CompressionNone

	if e.cfg.compression != format.CompressionNone && len(payload) > 0 {
		out, err := e.codec.Compress(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to compress payload: %w", err)
		}
		stored, compression = out, e.cfg.compression
	}

	h, err := e.buildHeader(stored, compression)
	if err != nil {
		return nil, fmt.Errorf("encoder produced an invalid header: %w", err)
	}

	total := header.HeaderSize + len(e.cfg.metadata) + len(e.cfg.signature) + len(stored)
	buf := pool.GetDatumBuffer()
	defer pool.PutDatumBuffer(buf)

	buf.Grow(total)
	buf.B = header.AppendEncode(buf.B, h)
	buf.MustWrite(e.cfg.metadata)
	buf.MustWrite(e.cfg.signature)
	buf.MustWrite(stored)

	e.cfg.logger.Debug("encoded datum",
		"flags", h.Flags().String(),
		"payload", len(payload),
		"stored", len(stored),
		"total", total,
	)

	return bytes.Clone(buf.B), nil
}

func (e *Encoder) buildHeader(stored []byte, compression format.CompressionAlgorithm) (header.Header, error) {
	cfg := e.cfg
	flags := cfg.flags

	ts := cfg.timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	if cfg.isDraft() {
		return header.NewV1(format.DatumFlag(header.DraftMarker), header.V1{
			Timestamp: uint64(ts.UnixNano()), //nolint:gosec // drafts accept any timestamp
			Size:      uint64(len(stored)),
		})
	}

	fields := header.V1{
		Timestamp:   uint64(ts.UnixNano()), //nolint:gosec // validated against MagicDate
		OPC:         cfg.opc,
		ChunkSize:   cfg.chunkSize,
		NetworkID:   cfg.networkID,
		Size:        uint64(len(stored)),
		Compression: compression,
		Encryption:  cfg.encryption,
	}

	if len(stored) == 0 {
		flags |= format.DatumEmpty
	}
	if cfg.checksum {
		fields.Checksum = hash.Checksum(stored)
		flags |= format.DatumChecksum
	}
	if cfg.opc != 0 {
		flags |= format.DatumOPC
	}
	if cfg.chunkSize != 0 {
		flags |= format.DatumChunked
	}
	if cfg.networkID != 0 {
		flags |= format.DatumNetwork
	}
	if compression != format.CompressionNone {
		flags |= format.DatumCompressed
	}
	if cfg.encryption != format.EncryptionNone {
		flags |= format.DatumEncrypted
	}
	if cfg.sigType != format.SignatureNone {
		fields.SignatureType = cfg.sigType
		fields.SignatureSize = uint16(len(cfg.signature)) //nolint:gosec // bounded by WithSignature
		flags |= format.DatumSigned
	}
	if cfg.metaSpec != 0 {
		fields.MetadataSpec = cfg.metaSpec
		fields.MetadataSize = uint32(len(cfg.metadata)) //nolint:gosec // bounded by WithMetadata
		flags |= format.DatumMetadata
	}

	return header.NewV1(flags, fields)
}
