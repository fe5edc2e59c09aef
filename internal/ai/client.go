package ai

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/ai/component"
	"portfolio-chat/internal/config"
	"portfolio-chat/internal/model"
)

// Client AI 能力层客户端
// 职责: 封装上游的对话、语音识别、语音合成能力，启动时创建一次，之后只读
type Client struct {
	chatChain   *ChatChain
	transcriber *Transcriber
	synthesizer *Synthesizer
}

// NewClient 创建 AI 客户端
func NewClient(ctx context.Context, cfg *config.Config, systemPrompt string) (*Client, error) {
	chatModel, err := component.NewChatModel(ctx, &cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	chatChain, err := NewChatChain(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat chain: %w", err)
	}

	audioClient, err := component.NewAudioClient(&cfg.AI, &cfg.Speech)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio client: %w", err)
	}

	c := &Client{
		chatChain:   chatChain,
		transcriber: NewTranscriber(audioClient, cfg.Speech.TranscribeModel),
		synthesizer: NewSynthesizer(audioClient, cfg.Speech.TTSModel, cfg.Speech.Voice),
	}

	log.Info().
		Str("provider", cfg.AI.Provider).
		Str("model", cfg.AI.Model).
		Str("transcribe_model", c.transcriber.model).
		Str("tts_model", c.synthesizer.model).
		Str("voice", c.synthesizer.voice).
		Msg("AI client initialized")

	return c, nil
}

// ChatRequest AI 对话请求
type ChatRequest struct {
	Message string
}

// ChatStream 流式对话
func (c *Client) ChatStream(ctx context.Context, req *ChatRequest) (<-chan *model.ChatChunk, error) {
	return c.chatChain.Stream(ctx, req)
}

// Transcribe 语音识别
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	return c.transcriber.Transcribe(ctx, audio, filename)
}

// Synthesize 语音合成
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return c.synthesizer.Synthesize(ctx, text)
}
