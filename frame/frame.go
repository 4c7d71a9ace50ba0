// Package frame wraps serialized data in a self-checking container for
// storage or transport.
//
// Layout:
//
//	magic        "SRLM"
//	version      1 byte
//	compression  1 byte
//	size         u32 little-endian, uncompressed payload length
//	digest       32 bytes, keyed BLAKE3 of the uncompressed payload
//	payload      remaining bytes
//
// A payload that does not shrink under the requested compression is
// stored uncompressed and the header says so.
package frame

import (
	"bytes"
	"encoding/binary"
	stderrors "errors"
	"fmt"

	"github.com/voodooattack/serialism/errors"
)

// Magic starts every frame.
var Magic = [4]byte{'S', 'R', 'L', 'M'}

const (
	// Version is the frame format version.
	Version = 1

	// HeaderSize is the fixed header length.
	HeaderSize = 4 + 1 + 1 + 4 + DigestSize

	// MaxPayloadSize bounds the declared uncompressed size.
	MaxPayloadSize = 1 << 30
)

// Header is the decoded fixed part of a frame.
type Header struct {
	Digest      Digest
	Size        uint32
	Version     uint8
	Compression Compression
}

// Encode frames payload with the requested compression.
func Encode(payload []byte, c Compression) ([]byte, error) {
	if len(payload) > MaxPayloadSize {
		return nil, errors.Overflow(errors.PhaseFrame, nil,
			fmt.Sprintf("payload of %d bytes exceeds limit %d", len(payload), MaxPayloadSize))
	}

	body, err := compress(payload, c)
	if err != nil {
		if !stderrors.Is(err, errIncompressible) {
			return nil, errors.Wrap(errors.PhaseFrame, errors.KindInvalidData, err, "compress")
		}
		body, c = payload, CompressionNone
	}

	out := make([]byte, 0, HeaderSize+len(body))
	out = append(out, Magic[:]...)
	out = append(out, Version, byte(c))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	d := Sum(payload)
	out = append(out, d[:]...)
	out = append(out, body...)
	return out, nil
}

// ReadHeader parses and validates the fixed header.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errors.Truncated(errors.PhaseFrame, len(data),
			fmt.Errorf("frame header needs %d bytes", HeaderSize))
	}
	if !bytes.Equal(data[:4], Magic[:]) {
		return Header{}, errors.InvalidData(errors.PhaseFrame, nil, "bad frame magic")
	}

	h := Header{
		Version:     data[4],
		Compression: Compression(data[5]),
		Size:        binary.LittleEndian.Uint32(data[6:10]),
	}
	copy(h.Digest[:], data[10:HeaderSize])

	if h.Version == 0 || h.Version > Version {
		return Header{}, errors.InvalidData(errors.PhaseFrame, nil,
			fmt.Sprintf("unsupported frame version %d", h.Version))
	}
	if h.Size > MaxPayloadSize {
		return Header{}, errors.Overflow(errors.PhaseFrame, nil,
			fmt.Sprintf("declared size %d exceeds limit %d", h.Size, MaxPayloadSize))
	}
	return h, nil
}

// Decode validates a frame and returns its uncompressed payload.
func Decode(data []byte) ([]byte, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	payload, err := decompress(data[HeaderSize:], h.Compression, int(h.Size))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseFrame, errors.KindInvalidData, err,
			"decompress "+h.Compression.String()+" payload")
	}
	if Sum(payload) != h.Digest {
		return nil, errors.InvalidData(errors.PhaseFrame, nil, "digest mismatch")
	}
	return payload, nil
}

// IsFrame reports whether data starts with the frame magic.
func IsFrame(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[:4], Magic[:])
}
