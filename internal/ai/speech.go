package ai

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/openai/openai-go/v3"
)

const (
	DefaultTranscribeModel = openai.AudioModelWhisper1
	DefaultTTSModel        = openai.SpeechModelTTS1
	DefaultVoice           = "fable"
)

// Transcriber 语音识别
type Transcriber struct {
	client openai.Client
	model  string
}

// NewTranscriber 创建语音识别客户端
func NewTranscriber(client openai.Client, model string) *Transcriber {
	if model == "" {
		model = DefaultTranscribeModel
	}
	return &Transcriber{client: client, model: model}
}

// Transcribe 将音频转换为文本
// filename 的扩展名用于上游识别音频格式
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  openai.File(audio, filename, contentType),
		Model: t.model,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Synthesizer 语音合成
type Synthesizer struct {
	client openai.Client
	model  string
	voice  string
}

// NewSynthesizer 创建语音合成客户端
func NewSynthesizer(client openai.Client, model, voice string) *Synthesizer {
	if model == "" {
		model = DefaultTTSModel
	}
	if voice == "" {
		voice = DefaultVoice
	}
	return &Synthesizer{client: client, model: model, voice: voice}
}

// Synthesize 将文本合成为 mp3 音频，完整读取后返回
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          s.model,
		Voice:          openai.AudioSpeechNewParamsVoice(s.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio from upstream")
	}
	return audio, nil
}
