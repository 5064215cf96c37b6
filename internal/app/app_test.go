package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hance08/teller/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefault()
	cfg.Log.File = filepath.Join(t.TempDir(), "teller.log")
	cfg.Server.DatabasePath = filepath.Join(t.TempDir(), "data", "teller.db")

	a, cleanup, err := NewApp(cfg, os.DirFS("../.."))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.NotNil(t, a.Service)
	assert.Equal(t, "http://localhost:3000", a.Backend.BaseURL())

	s, err := a.OpenStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	acc, err := s.GetAccount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Johns Checking", acc.Name)
	assert.FileExists(t, cfg.Server.DatabasePath)
}

func TestNewApp_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefault()
	cfg.Backend.BaseURL = "ftp://example.com"

	_, _, err := NewApp(cfg, os.DirFS("../.."))
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestDatabasePath(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefault()
	cfg.Server.DatabasePath = "/tmp/custom.db"

	got, err := DatabasePath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", got)

	cfg.Server.DatabasePath = ""
	got, err = DatabasePath(cfg)
	require.NoError(t, err)
	assert.Equal(t, "teller.db", filepath.Base(got))
}

func TestExpandPath(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{in: "~", want: home},
		{in: "~/teller.db", want: filepath.Join(home, "teller.db")},
		{in: "/var/lib/teller.db", want: "/var/lib/teller.db"},
		{in: "relative.db", want: "relative.db"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
