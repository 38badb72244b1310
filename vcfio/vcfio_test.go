package vcfio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

const payload = "##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

func gzipBytes(t *testing.T, s string) []byte {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, s string) []byte {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestNewReader(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  Compression
	}{
		{"plain", []byte(payload), Plain},
		{"gzip", gzipBytes(t, payload), Gzip},
		{"zstd", zstdBytes(t, payload), Zstd},
		{"empty", nil, Plain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewReader(io.NopCloser(bytes.NewReader(tc.input)))
			require.NoError(t, err)
			require.Equal(t, tc.want, r.Compression)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			if tc.input != nil {
				require.Equal(t, payload, string(got))
			} else {
				require.Empty(t, got)
			}
			require.NoError(t, r.Close())
		})
	}
}

func TestOpenIgnoresExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.vcf")
	require.NoError(t, os.WriteFile(path, gzipBytes(t, payload), 0644))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, Gzip, r.Compression)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, payload, string(got))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.vcf"))
	require.Error(t, err)
}

func TestCompressionString(t *testing.T) {
	require.Equal(t, "plain", Plain.String())
	require.Equal(t, "gzip", Gzip.String())
	require.Equal(t, "zstd", Zstd.String())
}

func TestCreateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.vcf", "out.vcf.gz", "out.vcf.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			w, err := Create(path)
			require.NoError(t, err)
			_, err = w.WriteString(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := Open(path)
			require.NoError(t, err)
			defer r.Close()
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.Equal(t, payload, string(got))
		})
	}
}

func TestCreateUnwritable(t *testing.T) {
	dir := t.TempDir()
	_, err := Create(filepath.Join(dir, "absent", "out.vcf"))
	require.Error(t, err)

	// a directory in place of the file
	_, err = Create(dir)
	require.Error(t, err)
}
