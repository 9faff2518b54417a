package compress

import (
	"fmt"

	"github.com/howijd/cryptdatum/errs"
	"github.com/howijd/cryptdatum/format"
)

// maxDecodedSize bounds the memory a single Decompress call may allocate.
const maxDecodedSize = 1 << 30

// Compressor compresses a complete datum payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller (NoOp returns the input itself)
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload compressed by the matching Compressor.
//
// Example:
//
//	codec, err := compress.GetCodec(hdrFields.Compression)
//	if err != nil {
//	    return err
//	}
//	payload, err := codec.Decompress(stored)
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// Error conditions:
	//   - Returns error if input data is corrupted or invalid
	//   - Returns error if data was compressed with incompatible algorithm
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates a new Codec for the algorithm recorded in a header.
//
// Parameters:
//   - algorithm: Compression algorithm (None, Zstd, S2, LZ4 or Gzip)
//
// Returns:
//   - Codec: Codec instance for the algorithm
//   - error: ErrUnsupportedCompression for unknown algorithms
func CreateCodec(algorithm format.CompressionAlgorithm) (Codec, error) {
	switch algorithm {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionGzip:
		return NewGzipCompressor(), nil
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, uint16(algorithm))
	}
}

var builtinCodecs = map[format.CompressionAlgorithm]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
	format.CompressionGzip: NewGzipCompressor(),
}

// GetCodec retrieves the shared built-in Codec for the algorithm.
func GetCodec(algorithm format.CompressionAlgorithm) (Codec, error) {
	if codec, ok := builtinCodecs[algorithm]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %d", errs.ErrUnsupportedCompression, uint16(algorithm))
}

// IsSupported reports whether algorithm has a built-in codec.
func IsSupported(algorithm format.CompressionAlgorithm) bool {
	_, ok := builtinCodecs[algorithm]
	return ok
}
