// Package errs defines the sentinel errors returned by cryptdatum packages.
//
// Errors are wrapped with context at the call site using fmt.Errorf and %w,
// so callers should match them with errors.Is:
//
//	if _, err := header.Decode(buf); errors.Is(err, errs.ErrTruncatedBuffer) {
//	    // wait for more data
//	}
package errs

import "errors"

// Header errors.
var (
	// ErrTruncatedBuffer is returned when the input is shorter than header.HeaderSize.
	// The caller may wait for more data or reject the source.
	ErrTruncatedBuffer = errors.New("truncated buffer")
	// ErrMalformedHeader is returned when a full-length buffer is not a Cryptdatum header.
	// It is always joined with one of the more specific reasons below.
	ErrMalformedHeader = errors.New("malformed header")

	ErrInvalidMagic     = errors.New("invalid magic")
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	ErrInvalidVersion   = errors.New("invalid version")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidFlags     = errors.New("inconsistent datum flags")

	// ErrUnknownVersion is advisory: the header is newer than this package knows about.
	ErrUnknownVersion = errors.New("unknown version")
	// ErrFieldsVersionMismatch is returned when header fields do not belong to the header version.
	ErrFieldsVersionMismatch = errors.New("header fields do not match version")
)

// Datum errors.
var (
	ErrInvalidPayloadSize     = errors.New("invalid payload size")
	ErrChecksumMismatch       = errors.New("checksum mismatch")
	ErrUnsupportedCompression = errors.New("unsupported compression algorithm")
	ErrInvalidOption          = errors.New("invalid option")
)
