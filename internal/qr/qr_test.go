package qr

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	const payload = "LPA:1$t-mobile.idemia.io$1BCH0-T6TKQ-PWCXS-FM6OD"
	path := filepath.Join(t.TempDir(), "code.png")
	require.NoError(t, WriteFile(payload, 256, path))

	got, err := DecodeFile(path)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestEncodePNG(t *testing.T) {
	t.Parallel()

	png, err := EncodePNG("LPA:1$smdp.example.com$ABC12345", 128)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG signature
	require.Equal(t, "\x89PNG", string(png[:4]))
}

func TestTerminalString(t *testing.T) {
	t.Parallel()

	s, err := TerminalString("LPA:1$smdp.example.com$ABC12345")
	require.NoError(t, err)
	require.Greater(t, strings.Count(s, "\n"), 10)
}

func TestDecodeFileMissing(t *testing.T) {
	t.Parallel()

	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}

func TestEncodeEmptyContent(t *testing.T) {
	t.Parallel()

	_, err := EncodePNG("", 128)
	require.Error(t, err)
}
