package cmd

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/backend"
	"github.com/MeKo-Tech/barscan/internal/decode"
	"github.com/MeKo-Tech/barscan/internal/symbol"
	"github.com/MeKo-Tech/barscan/internal/testutil"
)

func writeFixturePNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, testutil.NewTestImage(64, 64)))
	require.NoError(t, f.Close())
	return path
}

func withStubReader(t *testing.T, reader decode.Reader) {
	t.Helper()
	prev := newReader
	newReader = func() (decode.Reader, error) { return reader, nil }
	t.Cleanup(func() { newReader = prev })
}

// resetCommandFlags clears flag values that cobra leaves set after an
// Execute call, so tests sharing the package-global root command do not
// leak --help or --version state into each other.
func resetCommandFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
	}
	if f := cmd.PersistentFlags().Lookup("version"); f != nil {
		_ = f.Value.Set("false")
	}
	for _, sub := range cmd.Commands() {
		if f := sub.Flags().Lookup("help"); f != nil {
			_ = f.Value.Set("false")
		}
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := GetRootCommand()
	resetCommandFlags(cmd)
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestScanRequiresInput(t *testing.T) {
	_, err := execute(t, "scan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestScanOutputsResults(t *testing.T) {
	res := symbol.NewResult("hello-payload", nil, 0, symbol.FormatQR, nil)
	withStubReader(t, testutil.StaticReader(res, nil))

	out, err := execute(t, "scan", writeFixturePNG(t))
	require.NoError(t, err)
	assert.Contains(t, out, "hello-payload")
	assert.Contains(t, out, `"format": "qr"`)
}

func TestScanTextFormat(t *testing.T) {
	res := symbol.NewResult("text-payload", nil, 0, symbol.FormatEAN13, nil)
	withStubReader(t, testutil.StaticReader(res, nil))

	out, err := execute(t, "scan", "--format", "text", writeFixturePNG(t))
	require.NoError(t, err)
	assert.Contains(t, out, "1 symbol(s)")
	assert.Contains(t, out, "[ean13] text-payload")
}

func TestScanNothingFound(t *testing.T) {
	withStubReader(t, testutil.FailingReader())

	_, err := execute(t, "scan", "--format", "json", writeFixturePNG(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, decode.ErrNotFound)
}

func TestScanUnsupportedFile(t *testing.T) {
	withStubReader(t, testutil.FailingReader())

	_, err := execute(t, "scan", "document.tiff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestScanDefaultBackendWired(t *testing.T) {
	// Without a backend build tag the scan command still runs; every region
	// is unreadable, so the search reports not found.
	reader, err := newReader()
	require.NoError(t, err)
	_, err = reader.Decode(nil, nil)
	assert.ErrorIs(t, err, backend.ErrNoBackend)
}
