// Package datum encodes and decodes complete Cryptdatum containers.
//
// A datum is a 64-byte header (see package header) followed by up to three
// sections whose sizes the header records:
//
//	+--------+----------------+-----------------+-----------------+
//	| header | metadata       | signature       | payload         |
//	| 64 B   | MetadataSize B | SignatureSize B | Size B (stored) |
//	+--------+----------------+-----------------+-----------------+
//
// Metadata is present only with format.DatumMetadata and the signature only
// with format.DatumSigned. Size and Checksum describe the payload as stored,
// after compression.
//
// # Encoding
//
//	enc, err := datum.NewEncoder(
//	    datum.WithCompression(format.CompressionZstd),
//	    datum.WithMetadata(1, meta),
//	    datum.WithOPC(seq),
//	)
//	if err != nil {
//	    return err
//	}
//	data, err := enc.Encode(payload)
//
// The Encoder never encrypts or signs. Callers encrypt the payload themselves
// and record the algorithm with WithEncryption, and attach a precomputed
// signature with WithSignature.
//
// # Decoding
//
//	dec, err := datum.NewDecoder(data, datum.WithDecoderLogger(logger))
//	if err != nil {
//	    return err
//	}
//	d, err := dec.Decode()
//	payload := d.Payload()
//
// NewDecoder rejects malformed headers. Headers newer than the package knows
// are decoded with a warning, or rejected with WithStrictVersion. Decode checks
// that every section fits in the buffer, verifies the checksum and decompresses
// the payload. Read does the same for a datum arriving on an io.Reader.
//
// # Logging
//
// Encoder and Decoder log through log/slog. Output is discarded unless a logger
// is passed with WithLogger or WithDecoderLogger.
package datum
