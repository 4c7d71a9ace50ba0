package binary

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(bytes.NewReader(data))

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	_, err := r.ReadByte()
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(bytes.NewReader(data))

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v, want [1 2 3]", got)
	}
	if r.Remaining() != 2 {
		t.Errorf("Remaining: got %d, want 2", r.Remaining())
	}

	_, err = r.ReadBytes(10)
	if !IsEOF(err) {
		t.Errorf("expected unexpected EOF, got %v", err)
	}
	if r.Position() != 3 {
		t.Errorf("oversized read should not consume input, position %d", r.Position())
	}
}

func TestReaderReadU32(t *testing.T) {
	tests := []struct {
		encoded []byte
		want    uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}

	for _, tt := range tests {
		r := NewReader(bytes.NewReader(tt.encoded))
		got, err := r.ReadU32()
		if err != nil {
			t.Errorf("ReadU32(%v): %v", tt.encoded, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ReadU32(%v): got %d, want %d", tt.encoded, got, tt.want)
		}
	}
}

func TestReaderReadU32Overflow(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}))
	_, err := r.ReadU32()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestReaderReadS64(t *testing.T) {
	tests := []int64{0, 1, -1, 63, -64, 64, -65, math.MaxInt64, math.MinInt64}
	for _, want := range tests {
		w := NewWriter()
		w.WriteS64(want)
		r := NewReader(bytes.NewReader(w.Bytes()))
		got, err := r.ReadS64()
		if err != nil {
			t.Errorf("ReadS64(%d): %v", want, err)
			continue
		}
		if got != want {
			t.Errorf("ReadS64: got %d, want %d", got, want)
		}
	}
}

func TestReaderReadStringTruncated(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x05, 'a', 'b'}))
	_, err := r.ReadString()
	if !IsEOF(err) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestReaderWrapError(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02}))
	r.ReadByte()
	r.ReadByte()

	err := r.WrapError("header", errors.New("test error"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Position != 2 {
		t.Errorf("Position: got %d, want 2", pe.Position)
	}
	if pe.Error() != "wire: header at position 2: test error" {
		t.Errorf("Error(): got %q", pe.Error())
	}

	pe = &ParseError{Position: 5, Err: errors.New("some error")}
	if pe.Error() != "wire: at position 5: some error" {
		t.Errorf("Error(): got %q", pe.Error())
	}
}

func TestWriterBasic(t *testing.T) {
	w := NewWriter()
	w.Byte(0x42)
	w.WriteBytes([]byte{0x01, 0x02, 0x03})

	want := []byte{0x42, 0x01, 0x02, 0x03}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("Bytes: got %v, want %v", w.Bytes(), want)
	}
}

func TestWriterFixedWidth(t *testing.T) {
	w := NewWriter()
	w.WriteU32LE(0xDEADBEEF)
	if !bytes.Equal(w.Bytes(), []byte{0xEF, 0xBE, 0xAD, 0xDE}) {
		t.Errorf("WriteU32LE: got %x", w.Bytes())
	}
}

func TestRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteU32(12345)
	w.WriteS64(-9876)
	w.WriteString("roundtrip")
	w.WriteU32LE(0xDEADBEEF)
	w.WriteF64LE(math.Copysign(0, -1))

	r := NewReader(bytes.NewReader(w.Bytes()))

	u32, err := r.ReadU32()
	if err != nil || u32 != 12345 {
		t.Fatalf("ReadU32: %d, %v", u32, err)
	}
	s64, err := r.ReadS64()
	if err != nil || s64 != -9876 {
		t.Fatalf("ReadS64: %d, %v", s64, err)
	}
	s, err := r.ReadString()
	if err != nil || s != "roundtrip" {
		t.Fatalf("ReadString: %q, %v", s, err)
	}
	u32le, err := r.ReadU32LE()
	if err != nil || u32le != 0xDEADBEEF {
		t.Fatalf("ReadU32LE: 0x%08x, %v", u32le, err)
	}
	f, err := r.ReadF64LE()
	if err != nil || f != 0 || !math.Signbit(f) {
		t.Fatalf("ReadF64LE: %v, %v", f, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining: got %d, want 0", r.Remaining())
	}
}
