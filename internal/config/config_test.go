package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromFile 从yaml文件加载配置
func TestLoadConfigFromFile(t *testing.T) {
	content := `
aliyun:
  api_key: "test-key"
  model: "qwen-plus"
  task_models:
    profile_extraction: "qwen-turbo"

server:
  address: ":9090"

upload:
  max_file_size_mib: 20

interview:
  max_questions: 12

logger:
  level: "debug"
  format: "pretty"
`
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Aliyun.APIKey)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, int64(20), cfg.Upload.MaxFileSizeMiB)
	assert.Equal(t, int64(20*1024*1024), cfg.Upload.MaxFileSizeBytes())
	assert.Equal(t, 12, cfg.Interview.MaxQuestions)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

// TestLoadConfigDefaults 缺省字段应获得默认值
func TestLoadConfigDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("aliyun:\n  model: qwen-plus\n"), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address, "服务器地址应有默认值")
	assert.Equal(t, int64(10), cfg.Upload.MaxFileSizeMiB, "上传上限默认10MiB")
	assert.Equal(t, 0, cfg.Interview.MaxQuestions, "提问硬上限默认关闭")
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

// TestLoadConfigEnvOverride 环境变量应覆盖文件中的配置
func TestLoadConfigEnvOverride(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("aliyun:\n  api_key: file-key\n  model: qwen-plus\n"), 0644))

	t.Setenv("ALIYUN_API_KEY", "env-key")
	t.Setenv("ALIYUN_MODEL", "qwen-max")

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Aliyun.APIKey, "环境变量应覆盖文件中的API密钥")
	assert.Equal(t, "qwen-max", cfg.Aliyun.Model)
}

// TestGetModelForTask 任务专用模型优先，缺失时回落到全局默认模型
func TestGetModelForTask(t *testing.T) {
	cfg := &Config{}
	cfg.Aliyun.Model = "qwen-plus"
	cfg.Aliyun.TaskModels = map[string]string{
		"profile_extraction": "qwen-turbo",
		"interview_dialogue": "",
	}

	assert.Equal(t, "qwen-turbo", cfg.GetModelForTask("profile_extraction"))
	assert.Equal(t, "qwen-plus", cfg.GetModelForTask("interview_dialogue"), "空配置应回落到默认模型")
	assert.Equal(t, "qwen-plus", cfg.GetModelForTask("unknown_task"))
}
