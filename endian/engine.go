// Package endian provides byte order utilities for Cryptdatum headers and payloads.
//
// This package combines the ByteOrder and AppendByteOrder interfaces of the
// standard encoding/binary package into a single EndianEngine interface.
//
// # Header vs Payload Byte Order
//
// The header is always written in big-endian (network) byte order, regardless of
// the producing machine:
//
//	engine := endian.HeaderEngine()
//	version := engine.Uint16(buf[4:6])
//
// The payload byte order is chosen by the producer and recorded with the
// format.DatumBigEndian flag. Readers select the matching engine from the flags:
//
//	engine := endian.PayloadEngine(hdr.Flags())
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"

	"github.com/howijd/cryptdatum/format"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// HeaderEngine returns the engine used for every multi-byte header field.
func HeaderEngine() EndianEngine {
	return binary.BigEndian
}

// PayloadEngine returns the engine matching the payload byte order recorded in flags.
// Payloads without format.DatumBigEndian are little-endian.
func PayloadEngine(flags format.DatumFlag) EndianEngine {
	if flags.Has(format.DatumBigEndian) {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// PayloadFlag returns the flag describing engine's byte order, for producers
// writing payloads with a given engine.
func PayloadFlag(engine EndianEngine) format.DatumFlag {
	if engine == binary.BigEndian {
		return format.DatumBigEndian
	}

	return 0
}
