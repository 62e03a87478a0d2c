package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/yaml.v3"

	"github.com/nordmet/station-admin/pkg/config"
)

func newFakeConfig() config.Config {
	return config.Config{
		Oauth: config.Oauth{
			ClientID:     "fake_client_id",
			ClientSecret: "fake_client_secret",
			TenantID:     "fake_tenant_id",
		},
		SQLServer: config.SQLServer{
			Host:               "localhost",
			Port:               "1433",
			Database:           "weather",
			Table:              "StationTracking",
			Encrypt:            true,
			DialTimeoutSeconds: 30,
		},
		Server: config.Server{
			Address: "127.0.0.1",
			Port:    "8080",
		},
		Pool: config.Pool{
			Workers: 4,
		},
		LogLevel: "info",
	}
}

func TestLoad(t *testing.T) {
	expect := newFakeConfig()

	raw, err := yaml.Marshal(expect)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), raw, 0o644))

	got, err := config.NewFileSystemLoader().Load("config", dir, "STATIONADMIN", nil)
	require.NoError(t, err)

	if diff := cmp.Diff(expect, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadWithEnvBinder(t *testing.T) {
	cfg := newFakeConfig()
	cfg.Oauth.ClientSecret = "from_file"

	raw, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), raw, 0o644))

	t.Setenv("AZURE_CLIENT_SECRET", "from_env")
	t.Setenv("WEBSITE_INSTANCE_ID", "instance-1234")

	got, err := config.NewFileSystemLoader().Load("config", dir, "STATIONADMIN", config.NewDefaultEnvBinder())
	require.NoError(t, err)

	assert.Equal(t, "from_env", got.Oauth.ClientSecret)
	assert.Equal(t, "instance-1234", got.ManagedInstanceID)
	assert.True(t, got.IsManaged())
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(*config.Config)
		expectErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *config.Config) {},
		},
		{
			name:      "missing tenant id",
			mutate:    func(c *config.Config) { c.Oauth.TenantID = "" },
			expectErr: true,
		},
		{
			name:      "missing table",
			mutate:    func(c *config.Config) { c.SQLServer.Table = "" },
			expectErr: true,
		},
		{
			name:      "bad port",
			mutate:    func(c *config.Config) { c.SQLServer.Port = "not-a-port" },
			expectErr: true,
		},
		{
			name:      "zero pool workers",
			mutate:    func(c *config.Config) { c.Pool.Workers = 0 },
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newFakeConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConnectionString(t *testing.T) {
	cfg := newFakeConfig()

	assert.Equal(t,
		"sqlserver://localhost:1433?database=weather&dial+timeout=30&encrypt=true",
		cfg.SQLServer.ConnectionString(),
	)
}

func TestProcessConfigPath(t *testing.T) {
	parts, err := config.ProcessConfigPath("/some/where/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "config", parts.FileName)
	assert.Equal(t, "/some/where", parts.Path)

	_, err = config.ProcessConfigPath("/some/where/config.json")
	assert.Error(t, err)
}
