package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/cargotrace/engine/pkg/api"
)

type (
	// Reader is a bounds-checked cursor over an encoded record. Every
	// read validates the remaining buffer before slicing, so truncated
	// or garbage input produces an error, never a panic
	Reader struct {
		buf []byte
		pos int
	}

	// Writer accumulates an encoded record against a maximum size. The
	// first failure sticks; Finish reports it
	Writer struct {
		buf []byte
		max int
		err error
	}
)

var (
	ErrShortBuffer       = errors.New("buffer too short")
	ErrMissingTerminator = errors.New("missing string terminator")
	ErrInvalidUTF8       = errors.New("invalid UTF-8 in string field")
	ErrStringContainsNUL = errors.New("string field contains NUL byte")
	ErrRecordTooLarge    = errors.New("record exceeds maximum size")
	ErrBadPresenceFlag   = errors.New("invalid presence flag")
)

// NewReader creates a cursor over the given encoded bytes
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return fmt.Errorf("%w: need %d bytes at offset %d of %d",
			ErrShortBuffer, n, r.pos, len(r.buf))
	}
	return nil
}

// String reads a NUL-terminated UTF-8 string
func (r *Reader) String() (string, error) {
	end := bytes.IndexByte(r.buf[r.pos:], 0)
	if end < 0 {
		return "", fmt.Errorf("%w at offset %d", ErrMissingTerminator, r.pos)
	}
	raw := r.buf[r.pos : r.pos+end]
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w at offset %d", ErrInvalidUTF8, r.pos)
	}
	r.pos += end + 1
	return string(raw), nil
}

// Byte reads a single byte
func (r *Reader) Byte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// Bool reads a single byte as a boolean; any nonzero value is true
func (r *Reader) Bool() (bool, error) {
	b, err := r.Byte()
	return b != 0, err
}

// Uint64 reads a little-endian 64-bit unsigned integer
func (r *Reader) Uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// Uint32 reads a little-endian 32-bit unsigned integer
func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// Float64 reads a little-endian IEEE 754 double
func (r *Reader) Float64() (float64, error) {
	v, err := r.Uint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// Identity reads a length-prefixed identity. The one-byte prefix is
// required; fixed-width identity decoding is a known hazard
func (r *Reader) Identity() (api.Identity, error) {
	n, err := r.Byte()
	if err != nil {
		return api.Anonymous, err
	}
	if int(n) > api.MaxIdentityLen {
		return api.Anonymous, fmt.Errorf("%w: %d bytes",
			api.ErrIdentityTooLong, n)
	}
	if err := r.need(int(n)); err != nil {
		return api.Anonymous, err
	}
	id := api.Identity(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return id, nil
}

// Present reads a one-byte optional-field presence flag
func (r *Reader) Present() (bool, error) {
	b, err := r.Byte()
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, fmt.Errorf("%w: 0x%02x", ErrBadPresenceFlag, b)
}

// Blob reads a 32-bit length-prefixed byte slice
func (r *Reader) Blob() ([]byte, error) {
	n, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:])
	r.pos += int(n)
	return out, nil
}

// NewWriter creates a record writer bounded at max encoded bytes
func NewWriter(max int) *Writer {
	return &Writer{max: max}
}

func (w *Writer) grow(n int) bool {
	if w.err != nil {
		return false
	}
	if len(w.buf)+n > w.max {
		w.err = fmt.Errorf("%w: %d > %d bytes",
			ErrRecordTooLarge, len(w.buf)+n, w.max)
		return false
	}
	return true
}

// String writes a NUL-terminated string. Values containing a NUL byte
// are rejected; the terminator would otherwise be ambiguous
func (w *Writer) String(s string) {
	if w.err != nil {
		return
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		w.err = fmt.Errorf("%w: %q", ErrStringContainsNUL, s)
		return
	}
	if w.grow(len(s) + 1) {
		w.buf = append(w.buf, s...)
		w.buf = append(w.buf, 0)
	}
}

// Byte writes a single byte
func (w *Writer) Byte(b byte) {
	if w.grow(1) {
		w.buf = append(w.buf, b)
	}
}

// Bool writes a boolean as a single 0/1 byte
func (w *Writer) Bool(b bool) {
	if b {
		w.Byte(1)
		return
	}
	w.Byte(0)
}

// Uint64 writes a little-endian 64-bit unsigned integer
func (w *Writer) Uint64(v uint64) {
	if w.grow(8) {
		w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	}
}

// Uint32 writes a little-endian 32-bit unsigned integer
func (w *Writer) Uint32(v uint32) {
	if w.grow(4) {
		w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	}
}

// Float64 writes a little-endian IEEE 754 double
func (w *Writer) Float64(v float64) {
	w.Uint64(math.Float64bits(v))
}

// Identity writes a length-prefixed identity
func (w *Writer) Identity(id api.Identity) {
	if w.err != nil {
		return
	}
	raw := id.Bytes()
	if len(raw) > api.MaxIdentityLen {
		w.err = fmt.Errorf("%w: %d bytes", api.ErrIdentityTooLong, len(raw))
		return
	}
	w.Byte(byte(len(raw)))
	if w.grow(len(raw)) {
		w.buf = append(w.buf, raw...)
	}
}

// Present writes a one-byte optional-field presence flag
func (w *Writer) Present(present bool) {
	w.Bool(present)
}

// Blob writes a 32-bit length-prefixed byte slice
func (w *Writer) Blob(b []byte) {
	w.Uint32(uint32(len(b)))
	if w.grow(len(b)) {
		w.buf = append(w.buf, b...)
	}
}

// Finish returns the encoded record or the first write failure
func (w *Writer) Finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}
