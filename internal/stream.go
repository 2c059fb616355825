package internal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Stream reads and writes the little-endian binary record format. The first
// error stops all further reads and writes; check Err at the end.
type Stream struct {
	rw  io.ReadWriteSeeker
	err error
	buf [8]byte

	// storing holds the IDs of the objects being written, so that a cycle
	// of strong references fails instead of recursing forever.
	storing map[uintptr]bool
}

// NewStream creates a stream over rw.
func NewStream(rw io.ReadWriteSeeker) *Stream {
	return &Stream{rw: rw, storing: make(map[uintptr]bool)}
}

// NewMemStream creates a stream over an in-memory buffer initialized with b.
func NewMemStream(b []byte) (*Stream, *MemBuffer) {
	m := &MemBuffer{buf: b}
	return NewStream(m), m
}

// Err returns the first error the stream encountered.
func (s *Stream) Err() error {
	return s.err
}

func (s *Stream) fail(err error) error {
	if s.err == nil {
		s.err = err
	}
	return s.err
}

// Tell returns the current offset.
func (s *Stream) Tell() int64 {
	if s.err != nil {
		return 0
	}
	n, err := s.rw.Seek(0, io.SeekCurrent)
	if err != nil {
		s.fail(fmt.Errorf("sbx: stream position: %w", err))
	}
	return n
}

// Seek moves to an absolute offset.
func (s *Stream) Seek(pos int64) {
	if s.err != nil {
		return
	}
	if _, err := s.rw.Seek(pos, io.SeekStart); err != nil {
		s.fail(fmt.Errorf("sbx: seeking to %d: %w", pos, err))
	}
}

func (s *Stream) write(b []byte) {
	if s.err != nil {
		return
	}
	if _, err := s.rw.Write(b); err != nil {
		s.fail(fmt.Errorf("sbx: writing stream: %w", err))
	}
}

func (s *Stream) read(b []byte) bool {
	if s.err != nil {
		return false
	}
	if _, err := io.ReadFull(s.rw, b); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		s.fail(fmt.Errorf("sbx: reading stream: %w", err))
		return false
	}
	return true
}

// WriteUint8 writes a byte.
func (s *Stream) WriteUint8(n uint8) {
	s.buf[0] = n
	s.write(s.buf[:1])
}

// WriteUint16 writes a little-endian uint16.
func (s *Stream) WriteUint16(n uint16) {
	binary.LittleEndian.PutUint16(s.buf[:2], n)
	s.write(s.buf[:2])
}

// WriteUint32 writes a little-endian uint32.
func (s *Stream) WriteUint32(n uint32) {
	binary.LittleEndian.PutUint32(s.buf[:4], n)
	s.write(s.buf[:4])
}

// WriteUint64 writes a little-endian uint64.
func (s *Stream) WriteUint64(n uint64) {
	binary.LittleEndian.PutUint64(s.buf[:8], n)
	s.write(s.buf[:8])
}

// WriteFloat32 writes an IEEE 754 single.
func (s *Stream) WriteFloat32(f float32) {
	s.WriteUint32(math.Float32bits(f))
}

// WriteFloat64 writes an IEEE 754 double.
func (s *Stream) WriteFloat64(f float64) {
	s.WriteUint64(math.Float64bits(f))
}

// WriteString writes a string as a uint16 byte count followed by its
// Windows-1252 encoding. Characters outside that code page are replaced.
func (s *Stream) WriteString(str string) {
	b, err := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()).Bytes([]byte(str))
	if err != nil {
		s.fail(fmt.Errorf("sbx: encoding string: %w", err))
		return
	}
	if len(b) > math.MaxUint16 {
		s.fail(formatError("string of %d bytes is too long", len(b)))
		return
	}
	s.WriteUint16(uint16(len(b)))
	s.write(b)
}

// ReadUint8 reads a byte.
func (s *Stream) ReadUint8() uint8 {
	if !s.read(s.buf[:1]) {
		return 0
	}
	return s.buf[0]
}

// ReadUint16 reads a little-endian uint16.
func (s *Stream) ReadUint16() uint16 {
	if !s.read(s.buf[:2]) {
		return 0
	}
	return binary.LittleEndian.Uint16(s.buf[:2])
}

// ReadUint32 reads a little-endian uint32.
func (s *Stream) ReadUint32() uint32 {
	if !s.read(s.buf[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(s.buf[:4])
}

// ReadUint64 reads a little-endian uint64.
func (s *Stream) ReadUint64() uint64 {
	if !s.read(s.buf[:8]) {
		return 0
	}
	return binary.LittleEndian.Uint64(s.buf[:8])
}

// ReadFloat32 reads an IEEE 754 single.
func (s *Stream) ReadFloat32() float32 {
	return math.Float32frombits(s.ReadUint32())
}

// ReadFloat64 reads an IEEE 754 double.
func (s *Stream) ReadFloat64() float64 {
	return math.Float64frombits(s.ReadUint64())
}

// ReadString reads a string written by WriteString.
func (s *Stream) ReadString() string {
	n := s.ReadUint16()
	if n == 0 {
		return ""
	}
	b := make([]byte, n)
	if !s.read(b) {
		return ""
	}
	r, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		s.fail(fmt.Errorf("sbx: decoding string: %w", err))
		return ""
	}
	return string(r)
}

// MemBuffer is an in-memory io.ReadWriteSeeker. Writes past the end grow
// the buffer.
type MemBuffer struct {
	buf []byte
	pos int64
}

// Bytes returns the buffer's contents.
func (m *MemBuffer) Bytes() []byte {
	return m.buf
}

func (m *MemBuffer) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *MemBuffer) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		if end > int64(cap(m.buf)) {
			b := make([]byte, end, 2*end)
			copy(b, m.buf)
			m.buf = b
		} else {
			m.buf = m.buf[:end]
		}
	}
	copy(m.buf[m.pos:], p)
	m.pos = end
	return len(p), nil
}

func (m *MemBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = m.pos + offset
	case io.SeekEnd:
		pos = int64(len(m.buf)) + offset
	default:
		return m.pos, errors.New("sbx: invalid whence")
	}
	if pos < 0 {
		return m.pos, errors.New("sbx: negative position")
	}
	m.pos = pos
	return pos, nil
}
