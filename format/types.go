package format

import (
	"math/bits"
	"strconv"
	"strings"
)

type (
	// DatumFlag is the 64-bit flag set stored in the datum-version-marker field.
	DatumFlag uint64

	CompressionAlgorithm uint16
	EncryptionAlgorithm  uint16
	SignatureType        uint16
)

const (
	DatumInvalid     DatumFlag = 1 << iota // DatumInvalid marks a datum the producer failed to finish.
	DatumDraft                             // DatumDraft marks an experimental, not-yet-finalized datum.
	DatumEmpty                             // DatumEmpty marks a datum without payload.
	DatumChecksum                          // DatumChecksum marks a payload protected by the checksum field.
	DatumOPC                               // DatumOPC marks a datum carrying an operation counter.
	DatumCompressed                        // DatumCompressed marks a compressed payload.
	DatumEncrypted                         // DatumEncrypted marks an encrypted payload.
	DatumExtractable                       // DatumExtractable marks a payload that may be extracted to a file.
	DatumSigned                            // DatumSigned marks a datum carrying a signature.
	DatumChunked                           // DatumChunked marks a payload split into chunks.
	DatumMetadata                          // DatumMetadata marks a datum carrying a metadata section.
	DatumCompromised                       // DatumCompromised marks a datum whose integrity is known to be broken.
	DatumBigEndian                         // DatumBigEndian marks a payload written in big-endian byte order.
	DatumNetwork                           // DatumNetwork marks a datum carrying a network id.
)

var flagNames = [...]string{
	"invalid",
	"draft",
	"empty",
	"checksum",
	"opc",
	"compressed",
	"encrypted",
	"extractable",
	"signed",
	"chunked",
	"metadata",
	"compromised",
	"big-endian",
	"network",
}

// Has reports whether every bit of mask is set.
func (f DatumFlag) Has(mask DatumFlag) bool {
	return f&mask == mask
}

// Any reports whether at least one bit of mask is set.
func (f DatumFlag) Any(mask DatumFlag) bool {
	return f&mask != 0
}

func (f DatumFlag) String() string {
	if f == 0 {
		return "none"
	}

	var sb strings.Builder
	for rest := uint64(f); rest != 0; {
		bit := bits.TrailingZeros64(rest)
		rest &^= 1 << bit

		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		if bit < len(flagNames) {
			sb.WriteString(flagNames[bit])
		} else {
			sb.WriteString("bit")
			sb.WriteString(strconv.Itoa(bit))
		}
	}

	return sb.String()
}

const (
	CompressionNone CompressionAlgorithm = 0x0 // CompressionNone means the payload is stored as-is.
	CompressionZstd CompressionAlgorithm = 0x1 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionAlgorithm = 0x2 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionAlgorithm = 0x3 // CompressionLZ4 represents LZ4 frame compression.
	CompressionGzip CompressionAlgorithm = 0x4 // CompressionGzip represents gzip compression.
)

func (c CompressionAlgorithm) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}

// Encryption algorithm identifiers. Cryptdatum only records which algorithm
// the producer used; the payload is encrypted and decrypted by the caller.
const (
	EncryptionNone             EncryptionAlgorithm = 0x0
	EncryptionAESGCM           EncryptionAlgorithm = 0x1
	EncryptionChaCha20Poly1305 EncryptionAlgorithm = 0x2
	EncryptionXChaCha20Poly    EncryptionAlgorithm = 0x3
)

func (e EncryptionAlgorithm) String() string {
	switch e {
	case EncryptionNone:
		return "None"
	case EncryptionAESGCM:
		return "AES-GCM"
	case EncryptionChaCha20Poly1305:
		return "ChaCha20-Poly1305"
	case EncryptionXChaCha20Poly:
		return "XChaCha20-Poly1305"
	default:
		return "Unknown"
	}
}

const (
	SignatureNone    SignatureType = 0x0
	SignatureEd25519 SignatureType = 0x1
	SignatureECDSA   SignatureType = 0x2
	SignatureRSAPSS  SignatureType = 0x3
)

func (s SignatureType) String() string {
	switch s {
	case SignatureNone:
		return "None"
	case SignatureEd25519:
		return "Ed25519"
	case SignatureECDSA:
		return "ECDSA"
	case SignatureRSAPSS:
		return "RSA-PSS"
	default:
		return "Unknown"
	}
}
