package frame

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/voodooattack/serialism/errors"
)

func TestEncodeDecode(t *testing.T) {
	compressible := bytes.Repeat([]byte("serialism host object "), 200)
	random := make([]byte, 512)
	if _, err := rand.Read(random); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		payload []byte
		c       Compression
		stored  Compression
	}{
		{"none", compressible, CompressionNone, CompressionNone},
		{"lz4", compressible, CompressionLZ4, CompressionLZ4},
		{"zstd", compressible, CompressionZstd, CompressionZstd},
		{"incompressible falls back", random, CompressionZstd, CompressionNone},
		{"empty", nil, CompressionLZ4, CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			framed, err := Encode(tt.payload, tt.c)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			h, err := ReadHeader(framed)
			if err != nil {
				t.Fatalf("ReadHeader: %v", err)
			}
			if h.Compression != tt.stored {
				t.Errorf("stored compression = %s, want %s", h.Compression, tt.stored)
			}
			if int(h.Size) != len(tt.payload) {
				t.Errorf("size = %d, want %d", h.Size, len(tt.payload))
			}
			if tt.stored != CompressionNone && len(framed) >= HeaderSize+len(tt.payload) {
				t.Errorf("compressed frame is not smaller: %d bytes", len(framed))
			}

			got, err := Decode(framed)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !bytes.Equal(got, tt.payload) {
				t.Error("payload mismatch after round trip")
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	good, err := Encode(bytes.Repeat([]byte("abc"), 100), CompressionZstd)
	if err != nil {
		t.Fatal(err)
	}

	corrupt := func(mutate func([]byte)) []byte {
		b := append([]byte(nil), good...)
		mutate(b)
		return b
	}

	tests := []struct {
		name string
		data []byte
		kind errors.Kind
	}{
		{"short", good[:10], errors.KindTruncated},
		{"bad magic", corrupt(func(b []byte) { b[0] = 'X' }), errors.KindInvalidData},
		{"bad version", corrupt(func(b []byte) { b[4] = 9 }), errors.KindInvalidData},
		{"unknown compression", corrupt(func(b []byte) { b[5] = 7 }), errors.KindInvalidData},
		{"huge size", corrupt(func(b []byte) { b[9] = 0xff }), errors.KindOverflow},
		{"digest mismatch", corrupt(func(b []byte) { b[12] ^= 0xff }), errors.KindInvalidData},
		{"payload damaged", good[:len(good)-3], errors.KindInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.IsKind(err, tt.kind) {
				t.Fatalf("err = %v, want %s", err, tt.kind)
			}
		})
	}
}

func TestDecodeInflatedSizeDoesNotAllocate(t *testing.T) {
	payload := bytes.Repeat([]byte("abc"), 100)

	for _, c := range []Compression{CompressionLZ4, CompressionZstd} {
		t.Run(c.String(), func(t *testing.T) {
			framed, err := Encode(payload, c)
			if err != nil {
				t.Fatal(err)
			}
			if h, _ := ReadHeader(framed); h.Compression != c {
				t.Fatalf("stored compression = %s, want %s", h.Compression, c)
			}
			binary.LittleEndian.PutUint32(framed[6:10], MaxPayloadSize)

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err = Decode(framed)
			runtime.ReadMemStats(&after)

			if !errors.IsKind(err, errors.KindInvalidData) {
				t.Fatalf("err = %v, want %s", err, errors.KindInvalidData)
			}
			if grown := after.TotalAlloc - before.TotalAlloc; grown > 16<<20 {
				t.Errorf("Decode allocated %d bytes for a %d byte frame", grown, len(framed))
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		got, err := ParseCompression(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCompression(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCompression("brotli"); err == nil {
		t.Error("expected error for unknown compression")
	}

	var c Compression
	if err := c.UnmarshalText([]byte("lz4")); err != nil || c != CompressionLZ4 {
		t.Errorf("UnmarshalText = %v, %v", c, err)
	}
}

func TestSumIsKeyed(t *testing.T) {
	a := Sum([]byte("x"))
	if a != Sum([]byte("x")) {
		t.Error("Sum should be deterministic")
	}
	if a == Sum([]byte("y")) {
		t.Error("different payloads should differ")
	}
	if len(a.String()) != 2*DigestSize {
		t.Errorf("hex digest length = %d", len(a.String()))
	}
	if !IsFrame(append(Magic[:], 0)) || IsFrame([]byte("SRL")) {
		t.Error("IsFrame mismatch")
	}
}
