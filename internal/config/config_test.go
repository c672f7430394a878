package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/chatshell-api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, config.StoreMemory, cfg.StoreDriver)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 5*time.Minute, cfg.InsightsCacheTTL)
	require.Equal(t, "chatshell.vitals", cfg.NATSSubject)
	require.Equal(t, 60, cfg.VitalsRateLimit)
	require.Equal(t, time.Minute, cfg.VitalsRateWindow)
	require.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	require.False(t, cfg.UsesSQL())
}

func TestLoadReadsPrefixedEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CHATSHELL_APP_PORT", ":9090")
	t.Setenv("CHATSHELL_STORE_DRIVER", "SQLite")
	t.Setenv("CHATSHELL_INSIGHTS_CACHE_TTL", "30s")
	t.Setenv("CHATSHELL_FIXTURES_PATH", "/srv/fixtures.json")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, config.StoreSQLite, cfg.StoreDriver)
	require.True(t, cfg.UsesSQL())
	require.Equal(t, 30*time.Second, cfg.InsightsCacheTTL)
	require.Equal(t, "/srv/fixtures.json", cfg.FixturesPath)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":       {"CHATSHELL_STORE_DRIVER": "mongo"},
		"postgres without url": {"CHATSHELL_STORE_DRIVER": "postgres"},
		"bad ttl":              {"CHATSHELL_INSIGHTS_CACHE_TTL": "soon"},
		"bad shutdown":         {"CHATSHELL_SHUTDOWN_TIMEOUT": "-"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for key, value := range env {
				t.Setenv(key, value)
			}
			_, err := config.Load()
			require.Error(t, err)
		})
	}
}
