package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5, cfg.LPA.MinCodeLength)
	require.Equal(t, 50, cfg.LPA.MaxCodeLength)
	require.Equal(t, 256, cfg.QR.Size)
	require.Equal(t, 0, cfg.Scans.RetentionDays)
	require.NotEmpty(t, cfg.Database.Path)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[lpa]\nmin_code_length = 8\n\n[qr]\nsize = 512\n\n[scans]\nretention_days = 14\n"), 0o644))
	t.Setenv("ESIMQR_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8, cfg.LPA.MinCodeLength)
	require.Equal(t, 50, cfg.LPA.MaxCodeLength)
	require.Equal(t, 512, cfg.QR.Size)
	require.Equal(t, 14, cfg.Scans.RetentionDays)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("ESIMQR_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.LPA.MinCodeLength = 8
	cfg.QR.Size = 384
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8, got.LPA.MinCodeLength)
	require.Equal(t, 384, got.QR.Size)
}
