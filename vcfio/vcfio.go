// Package vcfio opens VCF input and output streams. Compressed input is
// recognized by its leading magic bytes rather than by file extension, so a
// gzipped file named "calls.vcf" is read the same as "calls.vcf.gz". Output
// compression is chosen by extension.
package vcfio

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const bufferSize = 1 << 16

// Compression is the encoding detected at the start of an input stream.
type Compression int

const (
	Plain Compression = iota
	Gzip
	Zstd
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "plain"
	}
}

// Detect reports the compression of a stream given its first bytes.
func Detect(magic []byte) Compression {
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		return Gzip
	case bytes.HasPrefix(magic, zstdMagic):
		return Zstd
	default:
		return Plain
	}
}

// Reader is a decompressed view of a VCF input. Close releases the
// decompressor and the underlying file.
type Reader struct {
	io.Reader
	Compression Compression
	closers     []func() error
}

func (r *Reader) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens the VCF at path. A path of "-" or "stdin" reads standard input.
func Open(path string) (*Reader, error) {
	if path == "-" || path == "stdin" {
		return NewReader(io.NopCloser(os.Stdin))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewReader wraps rc, decompressing it when it begins with a gzip or zstd
// header. Closing the returned Reader closes rc.
func NewReader(rc io.ReadCloser) (*Reader, error) {
	br := bufio.NewReaderSize(rc, bufferSize)
	magic, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, pfx.Err(err)
	}

	ans := &Reader{Compression: Detect(magic)}
	switch ans.Compression {
	case Gzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, pfx.Err(err)
		}
		ans.Reader = gz
		ans.closers = append(ans.closers, gz.Close)
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, pfx.Err(err)
		}
		ans.Reader = zr
		ans.closers = append(ans.closers, func() error {
			zr.Close()
			return nil
		})
	default:
		ans.Reader = br
	}
	ans.closers = append(ans.closers, rc.Close)
	return ans, nil
}

// Writer is a buffered, optionally compressed output stream. Close flushes
// the buffer, then closes the compressor and the underlying file.
type Writer struct {
	*bufio.Writer
	closers []func() error
}

func (w *Writer) Close() error {
	err := w.Flush()
	for _, c := range w.closers {
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Create opens path for writing, truncating any existing file. A path of "-"
// or "stdout" writes standard output, which Close leaves open. Paths ending in
// .gz or .bgz are gzip compressed and paths ending in .zst are zstd compressed.
func Create(path string) (*Writer, error) {
	if path == "-" || path == "stdout" {
		return &Writer{Writer: bufio.NewWriterSize(os.Stdout, bufferSize)}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	ans := new(Writer)
	switch {
	case strings.HasSuffix(path, ".gz"), strings.HasSuffix(path, ".bgz"):
		gz := gzip.NewWriter(f)
		ans.Writer = bufio.NewWriterSize(gz, bufferSize)
		ans.closers = append(ans.closers, gz.Close)
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, pfx.Err(err)
		}
		ans.Writer = bufio.NewWriterSize(zw, bufferSize)
		ans.closers = append(ans.closers, zw.Close)
	default:
		ans.Writer = bufio.NewWriterSize(f, bufferSize)
	}
	ans.closers = append(ans.closers, f.Close)
	return ans, nil
}
