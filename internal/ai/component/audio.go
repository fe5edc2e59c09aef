package component

import (
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"portfolio-chat/internal/config"
)

// NewAudioClient 创建语音识别 / 语音合成使用的 OpenAI 客户端
// 语音能力只有 OpenAI 提供，speech 未单独配置时沿用 openai provider 的凭证
func NewAudioClient(aiCfg *config.AIConfig, speechCfg *config.SpeechConfig) (openai.Client, error) {
	apiKey := speechCfg.APIKey
	baseURL := speechCfg.BaseURL
	if apiKey == "" {
		if aiCfg.Provider != "" && aiCfg.Provider != "openai" {
			return openai.Client{}, fmt.Errorf("speech.api_key is required when AI provider is %s", aiCfg.Provider)
		}
		apiKey = aiCfg.APIKey
		if baseURL == "" {
			baseURL = aiCfg.BaseURL
		}
	}
	if apiKey == "" {
		return openai.Client{}, fmt.Errorf("speech API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// 失败直接返回给调用方，不做重试
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return openai.NewClient(opts...), nil
}
