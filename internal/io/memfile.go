package ioutils

import (
	"errors"
	"io"
)

// MemFile is an in-memory io.WriteSeeker and io.Reader.
//
// Encoders that patch headers after writing the payload (such as the WAV
// encoder) need to seek; MemFile lets them do so without a temp file.
// The zero value is an empty file ready for use.
type MemFile struct {
	buf []byte
	off int64
}

// Write implements io.Writer. Writing past the end grows the file,
// filling any gap with zeros.
func (m *MemFile) Write(p []byte) (int, error) {
	end := m.off + int64(len(p))
	if end > int64(len(m.buf)) {
		if end > int64(cap(m.buf)) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}
	copy(m.buf[m.off:], p)
	m.off = end
	return len(p), nil
}

// Read implements io.Reader.
func (m *MemFile) Read(p []byte) (int, error) {
	if m.off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.off:])
	m.off += int64(n)
	return n, nil
}

// Seek implements io.Seeker.
func (m *MemFile) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.off + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("ioutils: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("ioutils: negative position")
	}
	m.off = abs
	return abs, nil
}

// Bytes returns the file contents.
func (m *MemFile) Bytes() []byte {
	return m.buf
}

// Len returns the file size.
func (m *MemFile) Len() int {
	return len(m.buf)
}
