package datum

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/howijd/cryptdatum/compress"
	"github.com/howijd/cryptdatum/endian"
	"github.com/howijd/cryptdatum/errs"
	"github.com/howijd/cryptdatum/format"
	"github.com/howijd/cryptdatum/header"
	"github.com/howijd/cryptdatum/internal/options"
)

// EncoderConfig holds the header fields and sections an Encoder writes.
//
// It is populated by EncoderOption values and checked once by NewEncoder, so
// every datum an Encoder produces carries a valid header.
type EncoderConfig struct {
	timestamp   time.Time
	compression format.CompressionAlgorithm
	checksum    bool
	opc         uint32
	chunkSize   uint16
	networkID   uint32
	flags       format.DatumFlag
	encryption  format.EncryptionAlgorithm
	sigType     format.SignatureType
	signature   []byte
	metaSpec    uint16
	metadata    []byte
	logger      *slog.Logger
}

func newEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		compression: format.CompressionNone,
		checksum:    true,
		logger:      discardLogger(),
	}
}

// validate checks option combinations that single options cannot see.
func (c *EncoderConfig) validate() error {
	if c.isDraft() {
		if c.flags != format.DatumDraft || c.compression != format.CompressionNone || c.opc != 0 ||
			c.chunkSize != 0 || c.networkID != 0 || c.encryption != format.EncryptionNone ||
			c.sigType != format.SignatureNone || c.metaSpec != 0 {
			return fmt.Errorf("%w: a draft datum carries only the draft marker", errs.ErrInvalidOption)
		}

		return nil
	}

	if c.timestamp.IsZero() || c.flags.Has(format.DatumCompromised) {
		return nil
	}

	if ts := c.timestamp.UnixNano(); ts < 0 || uint64(ts) < header.MagicDate {
		return fmt.Errorf("%w: timestamp %s is before %s", errs.ErrInvalidOption,
			c.timestamp.UTC().Format(time.RFC3339Nano), time.Unix(0, int64(header.MagicDate)).UTC().Format(time.RFC3339Nano))
	}

	return nil
}

func (c *EncoderConfig) isDraft() bool {
	return c.flags.Has(format.DatumDraft)
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithTimestamp sets the datum creation time. The time of each Encode call is
// used when it is not set.
//
// Non-draft datums must not be older than header.MagicDate.
func WithTimestamp(ts time.Time) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.timestamp = ts
	})
}

// WithCompression sets the payload compression algorithm. The default is
// format.CompressionNone.
func WithCompression(alg format.CompressionAlgorithm) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if !compress.IsSupported(alg) {
			return fmt.Errorf("%w: %w: %d", errs.ErrInvalidOption, errs.ErrUnsupportedCompression, uint16(alg))
		}
		c.compression = alg

		return nil
	})
}

// WithChecksum enables or disables the payload checksum. It is enabled by default.
func WithChecksum(enabled bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.checksum = enabled
	})
}

// WithOPC sets the operation counter. Zero clears it.
func WithOPC(opc uint32) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.opc = opc
	})
}

// WithChunkSize records the chunk size, in KiB, the payload was split into.
// Zero clears it.
func WithChunkSize(kib uint16) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.chunkSize = kib
	})
}

// WithNetworkID sets the network the datum belongs to. Zero clears it.
func WithNetworkID(id uint32) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.networkID = id
	})
}

// WithDraft marks the datum as a draft. Its datum-version-marker is exactly
// header.DraftMarker, so the payload is stored as-is without a checksum, and
// NewEncoder rejects any other option that sets a flag or a section.
func WithDraft() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.flags |= format.DatumDraft
	})
}

// WithCompromised marks the datum as compromised.
func WithCompromised() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.flags |= format.DatumCompromised
	})
}

// WithExtractable marks the payload as extractable.
func WithExtractable() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.flags |= format.DatumExtractable
	})
}

// WithBigEndian declares that multi-byte values inside the payload are big-endian.
// The header itself is always big-endian.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.flags |= format.DatumBigEndian
	})
}

// WithPayloadByteOrder records the byte order the payload was written with.
func WithPayloadByteOrder(engine endian.EndianEngine) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.flags = c.flags&^format.DatumBigEndian | endian.PayloadFlag(engine)
	})
}

// WithEncryption records the algorithm the caller encrypted the payload with.
// The Encoder does not encrypt; format.EncryptionNone clears it.
func WithEncryption(alg format.EncryptionAlgorithm) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.encryption = alg
	})
}

// WithSignature attaches a signature section. sig must be non-empty and at most
// 65535 bytes; format.SignatureNone with an empty sig removes the section.
func WithSignature(typ format.SignatureType, sig []byte) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if typ == format.SignatureNone {
			if len(sig) != 0 {
				return fmt.Errorf("%w: signature bytes without signature type", errs.ErrInvalidOption)
			}
			c.sigType, c.signature = format.SignatureNone, nil

			return nil
		}

		if len(sig) == 0 {
			return fmt.Errorf("%w: empty %s signature", errs.ErrInvalidOption, typ)
		}
		if len(sig) > math.MaxUint16 {
			return fmt.Errorf("%w: signature is %d bytes, max %d", errs.ErrInvalidOption, len(sig), math.MaxUint16)
		}
		c.sigType, c.signature = typ, bytes.Clone(sig)

		return nil
	})
}

// WithMetadata attaches a metadata section described by spec. spec must be
// non-zero; data may be empty.
func WithMetadata(spec uint16, data []byte) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if spec == 0 {
			return fmt.Errorf("%w: metadata spec must be non-zero", errs.ErrInvalidOption)
		}
		if uint64(len(data)) > math.MaxUint32 {
			return fmt.Errorf("%w: metadata is %d bytes, max %d", errs.ErrInvalidOption, len(data), uint64(math.MaxUint32))
		}
		c.metaSpec, c.metadata = spec, bytes.Clone(data)

		return nil
	})
}

// WithLogger sets the logger for encoder diagnostics. A nil logger discards output.
func WithLogger(logger *slog.Logger) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		if logger == nil {
			logger = discardLogger()
		}
		c.logger = logger
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
