package datum

import (
	"log/slog"

	"github.com/howijd/cryptdatum/internal/options"
)

// DefaultMaxDatumSize is the largest datum Read accepts unless configured otherwise.
const DefaultMaxDatumSize = 1 << 30

// DecoderConfig controls how strictly a Decoder treats its input.
type DecoderConfig struct {
	strictVersion  bool
	verifyChecksum bool
	maxDatumSize   uint64
	logger         *slog.Logger
}

func newDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		verifyChecksum: true,
		maxDatumSize:   DefaultMaxDatumSize,
		logger:         discardLogger(),
	}
}

// DecoderOption configures a Decoder.
type DecoderOption = options.Option[*DecoderConfig]

// WithStrictVersion makes headers newer than header.LatestVersion an error
// (errs.ErrUnknownVersion) instead of a logged warning.
func WithStrictVersion() DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		c.strictVersion = true
	})
}

// WithChecksumVerification enables or disables payload checksum verification.
// It is enabled by default.
func WithChecksumVerification(enabled bool) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		c.verifyChecksum = enabled
	})
}

// WithMaxDatumSize limits the number of bytes Read will allocate for one datum.
func WithMaxDatumSize(n uint64) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		c.maxDatumSize = n
	})
}

// WithDecoderLogger sets the logger for decoder warnings. A nil logger discards output.
func WithDecoderLogger(logger *slog.Logger) DecoderOption {
	return options.NoError(func(c *DecoderConfig) {
		if logger == nil {
			logger = discardLogger()
		}
		c.logger = logger
	})
}
