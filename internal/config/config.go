package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	Aliyun struct {
		APIKey     string            `yaml:"api_key"`
		APIURL     string            `yaml:"api_url"`
		Model      string            `yaml:"model"`
		TaskModels map[string]string `yaml:"task_models"` // 任务专用模型
	} `yaml:"aliyun"`

	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 上传限制配置
	Upload UploadConfig `yaml:"upload"`

	// 面试会话配置
	Interview InterviewConfig `yaml:"interview"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":8080" or "0.0.0.0:8080"
}

// UploadConfig 简历上传的边界约束
type UploadConfig struct {
	MaxFileSizeMiB int64 `yaml:"max_file_size_mib"` // 上传文件大小上限(MiB)，默认10
}

// MaxFileSizeBytes 返回以字节计的上传大小上限
func (u UploadConfig) MaxFileSizeBytes() int64 {
	return u.MaxFileSizeMiB * 1024 * 1024
}

// InterviewConfig 面试会话配置
type InterviewConfig struct {
	// MaxQuestions 面试官提问数量的机械硬上限，0表示关闭（默认）。
	// 提示词中的8-10题只是传给模型的软性指导，这里的上限是额外的防御措施。
	MaxQuestions int `yaml:"max_questions"`
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	// 如果未指定配置文件路径，则尝试在默认位置查找
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			"../../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".interview-agent", "config.yaml"),
		}

		// 获取当前可执行文件路径
		execPath, err := os.Executable()
		if err == nil {
			execDir := filepath.Dir(execPath)
			searchPaths = append(searchPaths, filepath.Join(execDir, "config.yaml"))
			searchPaths = append(searchPaths, filepath.Join(execDir, "..", "config.yaml"))
		}

		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}

		// 如果仍找不到配置文件：测试环境下使用默认配置，否则回落到默认路径
		if configPath == "" {
			if inTestEnvironment() {
				return createDefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	// 检查文件是否存在
	if _, err := os.Stat(configPath); err != nil {
		if inTestEnvironment() {
			return createDefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	// 读取配置文件
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置文件
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 从环境变量覆盖配置（如果存在）
	if envKey := os.Getenv("ALIYUN_API_KEY"); envKey != "" {
		config.Aliyun.APIKey = envKey
	}
	if envURL := os.Getenv("ALIYUN_API_URL"); envURL != "" {
		config.Aliyun.APIURL = envURL
	}
	if envModel := os.Getenv("ALIYUN_MODEL"); envModel != "" {
		config.Aliyun.Model = envModel
	}

	applyDefaults(&config)

	return &config, nil
}

// GetModelForTask 返回指定任务使用的模型名称
// 优先使用 task_models 中为该任务配置的专用模型，否则回落到全局默认模型。
// 目前的任务名: "profile_extraction", "interview_dialogue"
func (c *Config) GetModelForTask(task string) string {
	if c.Aliyun.TaskModels != nil {
		if m, ok := c.Aliyun.TaskModels[task]; ok && strings.TrimSpace(m) != "" {
			return m
		}
	}
	return c.Aliyun.Model
}

// inTestEnvironment 检测当前是否运行在go test环境中
func inTestEnvironment() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// applyDefaults 设置缺省值
func applyDefaults(config *Config) {
	if config.Server.Address == "" {
		config.Server.Address = ":8080" // 默认服务器地址
	}
	if config.Upload.MaxFileSizeMiB <= 0 {
		config.Upload.MaxFileSizeMiB = 10 // 默认上传上限10MiB
	}
	if config.Logger.Level == "" {
		config.Logger.Level = "info"
	}
	if config.Logger.Format == "" {
		config.Logger.Format = "json"
	}
}

// createDefaultConfig 创建一份用于测试环境的默认配置
func createDefaultConfig() *Config {
	config := &Config{}
	config.Aliyun.Model = "qwen-plus"
	applyDefaults(config)
	return config
}
