package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URI", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("PORT", "")
}

func TestLoadConfigFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
mongo:
  uri: "mongodb://localhost:27017"
  database: "shop"
jwt:
  secret: "filesecret"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "shop", cfg.Mongo.Database)
	assert.Equal(t, "filesecret", cfg.JWT.Secret)
	//沒設定port時使用預設值
	assert.Equal(t, "3000", cfg.Server.Port)
}

// 環境變數優先於設定檔
func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
mongo:
  uri: "mongodb://localhost:27017"
  database: "shop"
jwt:
  secret: "filesecret"
`)
	t.Setenv("JWT_SECRET_KEY", "envsecret")
	t.Setenv("PORT", "8080")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "envsecret", cfg.JWT.Secret)
	assert.Equal(t, "8080", cfg.Server.Port)
}

// 設定檔不存在時只靠環境變數
func TestLoadConfigEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("DB_NAME", "shop")
	t.Setenv("JWT_SECRET_KEY", "envsecret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
}

func TestLoadConfigMissingRequiredValues(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYaml(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, "mongo: [not: valid")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
