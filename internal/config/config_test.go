package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgconfig "github.com/abgdnv/productapi/pkg/config"
	"github.com/abgdnv/productapi/pkg/config/configloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T) (*Config, error) {
	t.Helper()
	return configloader.Load[*Config]("product",
		configloader.WithDefaults(Defaults()),
		configloader.WithEnvAlias("PORT", "server.port"),
	)
}

func Test_Load_Defaults(t *testing.T) {
	// given
	t.Chdir(t.TempDir())
	// when
	cfg, err := load(t)
	// then
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.HTTPServer.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.Timeout.Read)
	assert.Equal(t, pkgconfig.AuthModeStatic, cfg.Auth.Mode)
	assert.Equal(t, "mysecrettoken123", cfg.Auth.Token)
	assert.Equal(t, []string{"/"}, cfg.Auth.PublicPaths)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Events.Enabled)
	assert.False(t, cfg.GRPC.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Shutdown.Timeout)
}

func Test_Load_PortAlias(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")

	cfg, err := load(t)

	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.HTTPServer.Port)
}

func Test_Load_PrefixedEnvWinsOverAlias(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("PRODUCT_SERVER_PORT", "9090")
	t.Setenv("PRODUCT_AUTH_TOKEN", "another-secret")

	cfg, err := load(t)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPServer.Port)
	assert.Equal(t, "another-secret", cfg.Auth.Token)
}

func Test_Load_YamlFile(t *testing.T) {
	// given
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := []byte("server:\n  port: 4000\nlog:\n  level: debug\nauth:\n  publicpaths: [\"/\", \"/docs\"]\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	// when
	cfg, err := load(t)
	// then
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.HTTPServer.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"/", "/docs"}, cfg.Auth.PublicPaths)
}

func Test_Load_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=7000\nPRODUCT_LOG_LEVEL=warn\n"), 0o600))

	cfg, err := load(t)

	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.HTTPServer.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func Test_Load_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "empty static token", env: map[string]string{"PRODUCT_AUTH_TOKEN": " "}},
		{name: "unknown auth mode", env: map[string]string{"PRODUCT_AUTH_MODE": "basic"}},
		{name: "jwt mode without idp", env: map[string]string{"PRODUCT_AUTH_MODE": "jwt"}},
		{name: "unknown log level", env: map[string]string{"PRODUCT_LOG_LEVEL": "verbose"}},
		{name: "telemetry without endpoint", env: map[string]string{"PRODUCT_TELEMETRY_ENABLED": "true"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := load(t)

			assert.Error(t, err)
		})
	}
}

func Test_Config_String_MasksToken(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := load(t)
	require.NoError(t, err)

	out := cfg.String()

	assert.NotContains(t, out, "mysecrettoken123")
	assert.Contains(t, out, "port: 3000")
}
