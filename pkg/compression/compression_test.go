package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

func TestDetect(t *testing.T) {
	tests := map[string]Algorithm{
		"portfolio.csv":     None,
		"portfolio.csv.gz":  Gzip,
		"portfolio.csv.GZ":  Gzip,
		"ctabus.csv.zst":    Zstd,
		"ctabus.csv.lz4":    LZ4,
		"ctabus.csv.sz":     Snappy,
		"ctabus.arrow.s2":   S2,
		"archive.tar.bzip2": None,
	}
	for path, want := range tests {
		assert.Equal(t, want, Detect(path), path)
	}
}

func TestRoundTrip(t *testing.T) {
	data := strings.Repeat("route,date,daytype,rides\n22,02/02/2011,W,5055\n", 200)

	for _, alg := range []Algorithm{None, Gzip, Zstd, LZ4, Snappy, S2} {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				var buf bytes.Buffer
				w, err := NewWriter(&buf, alg, level)
				require.NoError(t, err)
				_, err = io.WriteString(w, data)
				require.NoError(t, err)
				require.NoError(t, w.Close())

				if alg != None {
					assert.Less(t, buf.Len(), len(data))
				}

				r, err := NewReader(&buf, alg)
				require.NoError(t, err)
				got, err := io.ReadAll(r)
				require.NoError(t, err)
				require.NoError(t, r.Close())
				assert.Equal(t, data, string(got))
			})
		}
	}
}

func TestUnsupported(t *testing.T) {
	_, err := NewReader(strings.NewReader(""), "brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = NewWriter(io.Discard, "brotli", Default)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestCorruptGzip(t *testing.T) {
	_, err := NewReader(strings.NewReader("not gzip"), Gzip)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
}
