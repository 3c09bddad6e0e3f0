package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// 核心默认值
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.False(t, cfg.Gemini.Enabled)
	assert.Equal(t, "resume.parse.exchange", cfg.RabbitMQ.ParseExchange)
	assert.Equal(t, "cv-originals", cfg.MinIO.OriginalsBucket)
	assert.Equal(t, 365, cfg.Redis.MD5RecordExpireDays)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadConfigFromFile(t *testing.T) {
	// 写入部分覆盖的配置文件
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  address: \":9090\"\nmysql:\n  database: cv_test\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)

	// 显式字段覆盖，其余保持默认
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "cv_test", cfg.MySQL.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("gemini:\n  api_key: from-file\n"), 0644))

	t.Setenv("GEMINI_API_KEY", "from-env")
	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
}

func TestCreateSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	assert.NoError(t, CreateSampleConfig(path))

	// 生成的文件可以原样加载
	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)

	// 不覆盖已有文件
	assert.Error(t, CreateSampleConfig(path))
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, GetDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("", time.Minute))
	assert.Equal(t, time.Minute, GetDuration("not-a-duration", time.Minute))
}
