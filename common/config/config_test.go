package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_LoadConfig(t *testing.T) {
	t.Run("config env", func(t *testing.T) {
		t.Setenv("MINDSHARD_SERVER_PORT", "6789")
		t.Setenv("MINDSHARD_SUI_PACKAGE_ID", "0xabc")
		cfg, err := LoadConfig()
		require.Nil(t, err)

		require.Equal(t, 6789, cfg.APIServer.Port)
		require.Equal(t, "0xabc", cfg.Sui.PackageID)
		require.Equal(t, "/api/v1", cfg.APIServer.RoutePrefix)
	})

	t.Run("config file", func(t *testing.T) {
		SetConfigFile("test.toml")
		defer SetConfigFile("")
		cfg, err := LoadConfig()
		require.Nil(t, err)

		require.Equal(t, 4321, cfg.APIServer.Port)
		require.Equal(t, "/api/v1", cfg.APIServer.RoutePrefix)
	})

	t.Run("file and env", func(t *testing.T) {
		SetConfigFile("test.toml")
		defer SetConfigFile("")
		t.Setenv("MINDSHARD_SERVER_PORT", "6789")
		cfg, err := LoadConfig()
		require.Nil(t, err)

		require.Equal(t, 6789, cfg.APIServer.Port)
	})
}
