package dng

import (
	"fmt"
	"io"
	"os"
)

// Stream is a read-only file stream. It satisfies io.Reader, io.ReaderAt and
// io.Seeker so the goexif decoders can read from it directly.
type Stream struct {
	f    *os.File
	size int64
}

// OpenFileStream opens path for reading.
func OpenFileStream(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(CodeOpenFile, err, "open %q", path)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, newError(CodeReadFile, err, "stat %q", path)
	}
	if fi.IsDir() {
		f.Close()
		return nil, newError(CodeOpenFile, nil, "%q is a directory", path)
	}

	return &Stream{f: f, size: fi.Size()}, nil
}

func (s *Stream) Read(p []byte) (int, error) {
	return s.f.Read(p)
}

func (s *Stream) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}

// Size returns the stream length in bytes.
func (s *Stream) Size() int64 {
	return s.size
}

// SetReadPosition moves the read cursor to an absolute offset.
func (s *Stream) SetReadPosition(off int64) error {
	if off < 0 || off > s.size {
		return badFormat("offset %d outside stream of %d bytes", off, s.size)
	}
	if _, err := s.f.Seek(off, io.SeekStart); err != nil {
		return newError(CodeReadFile, err, "seek to %d", off)
	}
	return nil
}

// ReadBytes reads exactly n bytes at off. Ranges past the end of the stream
// are a format error since offsets come from the file's own directories.
func (s *Stream) ReadBytes(off, n int64) ([]byte, error) {
	if off < 0 || n < 0 || off > s.size || n > s.size-off {
		return nil, badFormat("segment [%d,+%d) outside stream of %d bytes", off, n, s.size)
	}
	buf := make([]byte, n)
	if _, err := s.f.ReadAt(buf, off); err != nil {
		if err == io.EOF {
			return nil, newError(CodeEndOfFile, err, "read %d bytes at %d", n, off)
		}
		return nil, newError(CodeReadFile, err, "read %d bytes at %d", n, off)
	}
	return buf, nil
}

func (s *Stream) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// Closed reports whether Close has been called.
func (s *Stream) Closed() bool {
	return s.f == nil
}

func (s *Stream) String() string {
	if s.f == nil {
		return "dng.Stream(closed)"
	}
	return fmt.Sprintf("dng.Stream(%s, %d bytes)", s.f.Name(), s.size)
}
