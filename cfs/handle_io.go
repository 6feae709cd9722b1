package cfs

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/cfskit/internal/buf"
	"github.com/joshuapare/cfskit/internal/format"
)

// Read implements io.Reader over the rest of the payload.
func (h *Handle) Read(p []byte) (int, error) {
	if err := h.live(); err != nil {
		return 0, err
	}
	if h.off >= h.size {
		return 0, io.EOF
	}
	n := copy(p, h.a.seq()[h.at():h.pos+h.size])
	h.off += int64(n)
	return n, nil
}

// Write implements io.Writer. The chain is expanded until p fits; if it
// cannot be, nothing is written.
func (h *Handle) Write(p []byte) (int, error) {
	if err := h.reserve(int64(len(p))); err != nil {
		return 0, err
	}
	n := copy(h.a.seq()[h.at():], p)
	h.a.touch(int64(h.at()), int64(n))
	h.off += int64(n)
	return n, nil
}

// ReadByte implements io.ByteReader.
func (h *Handle) ReadByte() (byte, error) {
	if err := h.need(1); err != nil {
		return 0, err
	}
	c := h.a.seq()[h.at()]
	h.off++
	return c, nil
}

// WriteByte implements io.ByteWriter.
func (h *Handle) WriteByte(c byte) error {
	_, err := h.Write([]byte{c})
	return err
}

// ReadBool reads one byte; any non-zero value is true.
func (h *Handle) ReadBool() (bool, error) {
	c, err := h.ReadByte()
	return c != 0, err
}

// WriteBool writes 1 or 0.
func (h *Handle) WriteBool(v bool) error {
	if v {
		return h.WriteByte(1)
	}
	return h.WriteByte(0)
}

// ReadBytes reads exactly n bytes.
func (h *Handle) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("read %d bytes: %w", n, ErrOutOfRange)
	}
	if err := h.need(int64(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, h.a.seq()[h.at():])
	h.off += int64(n)
	return out, nil
}

// WriteBytes writes p.
func (h *Handle) WriteBytes(p []byte) error {
	_, err := h.Write(p)
	return err
}

// ReadUint16 reads a little-endian uint16.
func (h *Handle) ReadUint16() (uint16, error) {
	if err := h.need(2); err != nil {
		return 0, err
	}
	v := format.ReadU16(h.a.seq(), h.at())
	h.off += 2
	return v, nil
}

// ReadUint32 reads a little-endian uint32.
func (h *Handle) ReadUint32() (uint32, error) {
	if err := h.need(4); err != nil {
		return 0, err
	}
	v := format.ReadU32(h.a.seq(), h.at())
	h.off += 4
	return v, nil
}

// ReadUint64 reads a little-endian uint64.
func (h *Handle) ReadUint64() (uint64, error) {
	if err := h.need(8); err != nil {
		return 0, err
	}
	v := format.ReadU64(h.a.seq(), h.at())
	h.off += 8
	return v, nil
}

func (h *Handle) ReadInt16() (int16, error) {
	v, err := h.ReadUint16()
	return int16(v), err
}

func (h *Handle) ReadInt32() (int32, error) {
	v, err := h.ReadUint32()
	return int32(v), err
}

func (h *Handle) ReadInt64() (int64, error) {
	v, err := h.ReadUint64()
	return int64(v), err
}

// WriteUint16 writes a little-endian uint16.
func (h *Handle) WriteUint16(v uint16) error {
	if err := h.reserve(2); err != nil {
		return err
	}
	format.PutU16(h.a.seq(), h.at(), v)
	h.wrote(2)
	return nil
}

// WriteUint32 writes a little-endian uint32.
func (h *Handle) WriteUint32(v uint32) error {
	if err := h.reserve(4); err != nil {
		return err
	}
	format.PutU32(h.a.seq(), h.at(), v)
	h.wrote(4)
	return nil
}

// WriteUint64 writes a little-endian uint64.
func (h *Handle) WriteUint64(v uint64) error {
	if err := h.reserve(8); err != nil {
		return err
	}
	format.PutU64(h.a.seq(), h.at(), v)
	h.wrote(8)
	return nil
}

func (h *Handle) WriteInt16(v int16) error { return h.WriteUint16(uint16(v)) }

func (h *Handle) WriteInt32(v int32) error { return h.WriteUint32(uint32(v)) }

func (h *Handle) WriteInt64(v int64) error { return h.WriteUint64(uint64(v)) }

// ReadString reads a 7-bit varint byte length followed by UTF-8 text.
// Ill-formed sequences decode as U+FFFD.
func (h *Handle) ReadString() (string, error) {
	if err := h.live(); err != nil {
		return "", err
	}
	seq := h.a.seq()
	n, w, ok := buf.Uvarint7(seq[h.pos:h.pos+h.size], int(h.off))
	if !ok {
		return "", fmt.Errorf("string length at %d: %w", h.off, ErrEndOfCluster)
	}
	if uint64(h.size-h.off-int64(w)) < n {
		return "", fmt.Errorf("string of %d bytes at %d of %d: %w", n, h.off, h.size, ErrEndOfCluster)
	}
	start := h.at() + w
	text, err := unicode.UTF8.NewDecoder().Bytes(seq[start : start+int(n)])
	if err != nil {
		return "", fmt.Errorf("decode string: %w", err)
	}
	h.off += int64(w) + int64(n)
	return string(text), nil
}

// WriteString writes s as a 7-bit varint byte length followed by UTF-8
// bytes. Ill-formed input is replaced with U+FFFD before encoding.
func (h *Handle) WriteString(s string) error {
	text, err := unicode.UTF8.NewEncoder().String(s)
	if err != nil {
		return fmt.Errorf("encode string: %w", err)
	}
	w := buf.Uvarint7Len(uint64(len(text)))
	if err := h.reserve(int64(w + len(text))); err != nil {
		return err
	}
	seq := h.a.seq()
	buf.PutUvarint7(seq, h.at(), uint64(len(text)))
	copy(seq[h.at()+w:], text)
	h.wrote(int64(w + len(text)))
	return nil
}

// wrote marks n bytes at the cursor dirty and advances.
func (h *Handle) wrote(n int64) {
	h.a.touch(int64(h.at()), n)
	h.off += n
}
