// Package compress provides the payload compression codecs named by the
// Cryptdatum header compression field.
//
// A datum records the algorithm used for its payload at header offset 48 and
// sets format.DatumCompressed. Readers look the codec up from the header, so
// producers and consumers only have to agree on the algorithm identifier:
//
//	Id | Algorithm | Library
//	---|-----------|------------------------------------------
//	0  | None      | -
//	1  | Zstd      | github.com/klauspost/compress/zstd (pure Go)
//	   |           | github.com/valyala/gozstd (build tag gozstd, cgo)
//	2  | S2        | github.com/klauspost/compress/s2
//	3  | LZ4       | github.com/pierrec/lz4/v4 (frame format)
//	4  | Gzip      | github.com/klauspost/compress/gzip
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	stored, err := codec.Compress(payload)
//	...
//	payload, err = codec.Decompress(stored)
//
// GetCodec returns shared instances; CreateCodec returns a new one. Both return
// errs.ErrUnsupportedCompression for identifiers without a codec.
//
// # Choosing an Algorithm
//
//   - Zstd: best ratio, good for archival datums and slow links
//   - S2: balanced speed and ratio
//   - LZ4: fastest decompression
//   - Gzip: interoperability with tools outside Go
//   - None: already compressed or encrypted payloads
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. Zstd and LZ4 keep
// their internal encoders in sync.Pool instances.
package compress
