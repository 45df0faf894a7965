package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

// Method selects how entries are compressed.
type Method string

const (
	MethodDeflate Method = "deflate"
	MethodZstd    Method = "zstd"
	MethodStore   Method = "store"
)

// DefaultChunkSize is the transfer buffer size used when Options.ChunkSize is unset.
const DefaultChunkSize = 1024

// Options configures a Writer.
type Options struct {
	Method    Method
	Level     int // flate level for MethodDeflate; -1 is the library default
	ChunkSize int
}

// DefaultOptions returns deflate at the default level with 1 KiB chunks.
func DefaultOptions() Options {
	return Options{Method: MethodDeflate, Level: flate.DefaultCompression, ChunkSize: DefaultChunkSize}
}

func (o Options) zipMethod() (uint16, error) {
	switch o.Method {
	case "", MethodDeflate:
		return zip.Deflate, nil
	case MethodZstd:
		return zstd.ZipMethodWinZip, nil
	case MethodStore:
		return zip.Store, nil
	default:
		return 0, fmt.Errorf("unknown archive method %q", o.Method)
	}
}

// Writer streams entries into a zip container.
type Writer struct {
	zw     *zip.Writer
	method uint16
	buf    []byte
	count  int
	closed bool
}

// NewWriter returns a Writer bound to w. The caller owns w and must close it
// after Close returns.
func NewWriter(w io.Writer, opts Options) (*Writer, error) {
	method, err := opts.zipMethod()
	if err != nil {
		return nil, err
	}

	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}

	zw := zip.NewWriter(w)
	switch method {
	case zip.Deflate:
		level := opts.Level
		if level < flate.HuffmanOnly || level > flate.BestCompression {
			return nil, fmt.Errorf("invalid deflate level %d", level)
		}
		zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, level)
		})
	case zstd.ZipMethodWinZip:
		zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	}

	return &Writer{zw: zw, method: method, buf: make([]byte, chunk)}, nil
}

// Add writes one entry named name with the bytes of r, transferring at most
// one chunk per read. ctx is checked between chunks.
func (w *Writer) Add(ctx context.Context, name string, r io.Reader) (int64, error) {
	if w.closed {
		return 0, errors.New("archive writer closed")
	}

	entry, err := w.zw.CreateHeader(&zip.FileHeader{Name: name, Method: w.method, Modified: time.Now()})
	if err != nil {
		return 0, fmt.Errorf("create entry %s: %w", name, err)
	}

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, rerr := r.Read(w.buf)
		if n > 0 {
			m, werr := entry.Write(w.buf[:n])
			written += int64(m)
			if werr != nil {
				return written, fmt.Errorf("write entry %s: %w", name, werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return written, rerr
		}
	}

	w.count++
	return written, nil
}

// Count returns the number of entries added so far.
func (w *Writer) Count() int {
	return w.count
}

// Close writes the central directory. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.zw.Close()
}

// EntryName strips directory components from a source path. Both slash and
// backslash separators are treated as directory separators.
func EntryName(source string) string {
	name := strings.ReplaceAll(source, `\`, "/")
	name = strings.TrimRight(name, "/")
	return path.Base(name)
}
