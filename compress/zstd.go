package compress

// ZstdCompressor provides Zstandard compression for datum payloads.
//
// Zstd gives the best ratio of the built-in codecs, which makes it a good fit for:
//   - Archived datums that are written once and read rarely
//   - Datums sent over slow or metered links
//
// The default build uses the pure Go klauspost/compress implementation. Building
// with cgo and the gozstd tag switches to the libzstd binding from
// valyala/gozstd; both produce standard zstd frames and interoperate.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(payload)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
