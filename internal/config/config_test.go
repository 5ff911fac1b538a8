package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TMDB_KEY", "")
	t.Setenv("DISCOVER_REGION", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "BR", cfg.Discovery.Region)
	assert.Equal(t, 10*time.Second, cfg.TMDB.Timeout)
	assert.False(t, cfg.HasTMDBCredential())
}

func TestLoadCredential(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "abc")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.HasTMDBCredential())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "memory driver",
			cfg:  Config{Storage: StorageConfig{Driver: StorageMemory}, Discovery: DiscoveryConfig{Region: "BR"}},
		},
		{
			name:    "redis driver without host",
			cfg:     Config{Storage: StorageConfig{Driver: StorageRedis}, Discovery: DiscoveryConfig{Region: "BR"}},
			wantErr: true,
		},
		{
			name:    "postgres driver without url",
			cfg:     Config{Storage: StorageConfig{Driver: StoragePostgres}, Discovery: DiscoveryConfig{Region: "BR"}},
			wantErr: true,
		},
		{
			name: "postgres driver with url",
			cfg: Config{
				Storage:   StorageConfig{Driver: StoragePostgres},
				Database:  DatabaseConfig{URL: "postgres://localhost/vibeflix"},
				Discovery: DiscoveryConfig{Region: "BR"},
			},
		},
		{
			name:    "unknown driver",
			cfg:     Config{Storage: StorageConfig{Driver: "sqlite"}, Discovery: DiscoveryConfig{Region: "BR"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("TMDB_TIMEOUT", "soon")
	assert.Equal(t, 3*time.Second, getEnvDuration("TMDB_TIMEOUT", 3*time.Second))
}
