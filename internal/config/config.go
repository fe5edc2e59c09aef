package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	AI      AIConfig      `mapstructure:"ai"`
	Speech  SpeechConfig  `mapstructure:"speech"`
	Persona PersonaConfig `mapstructure:"persona"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Mode          string        `mapstructure:"mode"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"` // 0 表示不限制（流式响应需要）
	MaxUploadSize int64         `mapstructure:"max_upload_size"`
	FrontendDir   string        `mapstructure:"frontend_dir"` // 前端构建产物目录
}

// AIConfig AI 服务配置
type AIConfig struct {
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// SpeechConfig 语音识别 / 语音合成配置
// APIKey / BaseURL 为空时沿用 AI 配置（仅 openai provider）
type SpeechConfig struct {
	APIKey          string `mapstructure:"api_key"`
	BaseURL         string `mapstructure:"base_url"`
	TranscribeModel string `mapstructure:"transcribe_model"` // 默认: whisper-1
	TTSModel        string `mapstructure:"tts_model"`        // 默认: tts-1
	Voice           string `mapstructure:"voice"`            // 默认: fable
}

// PersonaConfig 人设配置
type PersonaConfig struct {
	PromptFile string `mapstructure:"prompt_file"` // 为空时使用内置 system prompt
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// StorageConfig 临时文件存储配置
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // 目前仅支持 local
	Local *LocalConfig `mapstructure:"local,omitempty"`
}

// LocalConfig 本地文件系统配置
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"` // 基础路径
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.AI.APIKey == "" {
		return errors.New("upstream API key is required (set OPENAI_API_KEY or ai.api_key)")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	if c.Server.MaxUploadSize <= 0 {
		return errors.New("invalid max upload size")
	}

	if c.Storage.Type != "" && c.Storage.Type != "local" {
		return errors.New("unsupported storage type, must be local")
	}

	return nil
}
