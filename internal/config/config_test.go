package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abelbrown/cardscope/internal/card"
	"github.com/abelbrown/cardscope/internal/search"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CARDSCOPE_API_URL", "CARDSCOPE_CATALOG", "CARDSCOPE_SORT", "CARDSCOPE_OFFLINE"} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	key, err := cfg.SortKey()
	require.NoError(t, err)
	require.Equal(t, card.SortByName, key)

	timeout, err := cfg.SearchTimeout()
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, timeout)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://localhost:9000"
	cfg.API.MaxRetries = -1
	cfg.UI.DefaultSort = "power"
	cfg.UI.AltScreen = false
	cfg.Catalog.Offline = true
	cfg.Catalog.Path = "/tmp/cards.db"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ndefault_sort = \"cost\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "cost", cfg.UI.DefaultSort)
	require.Equal(t, search.DefaultBaseURL, cfg.API.BaseURL)
	require.Equal(t, "15s", cfg.API.Timeout)
	require.True(t, cfg.UI.AltScreen)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CARDSCOPE_API_URL", "http://env.example")
	t.Setenv("CARDSCOPE_CATALOG", "/data/env.db")
	t.Setenv("CARDSCOPE_SORT", "set")
	t.Setenv("CARDSCOPE_OFFLINE", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	require.Equal(t, "http://env.example", cfg.API.BaseURL)
	require.Equal(t, "/data/env.db", cfg.Catalog.Path)
	require.True(t, cfg.Catalog.Offline)

	key, err := cfg.SortKey()
	require.NoError(t, err)
	require.Equal(t, card.SortBySet, key)
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed toml", "[api\nbase_url = "},
		{"bad timeout", "[api]\ntimeout = \"soon\"\n"},
		{"negative interval", "[api]\nrate_interval = \"-1s\"\n"},
		{"unknown sort", "[ui]\ndefault_sort = \"rarity\"\n"},
		{"offline without catalog", "[catalog]\noffline = true\npath = \"\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestValidateEmptyBaseURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.BaseURL = ""
	require.Error(t, cfg.Validate())

	cfg.Catalog.Offline = true
	require.NoError(t, cfg.Validate())
}

func TestClientOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.RateInterval = "250ms"
	cfg.API.MaxRetries = 5

	require.Equal(t, search.ClientOptions{
		BaseURL:      search.DefaultBaseURL,
		RateInterval: 250 * time.Millisecond,
		MaxRetries:   5,
	}, cfg.ClientOptions())
}

func TestEmptyDurationsMeanUnset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = ""
	require.NoError(t, cfg.Validate())

	d, err := cfg.SearchTimeout()
	require.NoError(t, err)
	require.Zero(t, d)
}
