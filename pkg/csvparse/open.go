package csvparse

import (
	"io"
	"os"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/errors"
)

// OpenFile opens path for reading, transparently decompressing files whose
// extension names a codec (see compression.Detect). Closing the returned
// reader closes the file.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is supplied by the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInput, "failed to open source").
			WithDetail("path", path)
	}

	alg := compression.Detect(path)
	if alg == compression.None {
		return f, nil
	}

	zr, err := compression.NewReader(f, alg)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeInput, "failed to open compressed source").
			WithDetail("path", path)
	}
	return &stackedReader{Reader: zr, closers: []io.Closer{zr, f}}, nil
}

// CreateFile creates path for writing, compressing the output when the
// extension names a codec. Closing the returned writer flushes the codec and
// closes the file.
func CreateFile(path string) (io.WriteCloser, error) {
	f, err := os.Create(path) //nolint:gosec // G304: path is supplied by the caller
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output").
			WithDetail("path", path)
	}

	alg := compression.Detect(path)
	if alg == compression.None {
		return f, nil
	}

	zw, err := compression.NewWriter(f, alg, compression.Default)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create compressed output").
			WithDetail("path", path)
	}
	return &stackedWriter{Writer: zw, closers: []io.Closer{zw, f}}, nil
}

// stackedReader closes a decompressor and the file beneath it
type stackedReader struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReader) Close() error {
	return closeAll(s.closers)
}

type stackedWriter struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriter) Close() error {
	return closeAll(s.closers)
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
