package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/pkg/id"
	"portfolio-chat/internal/pkg/storage"
)

var (
	// ErrEmptyText 合成文本为空
	ErrEmptyText = errors.New("text is required")
	// ErrEmptyAudio 音频内容为空
	ErrEmptyAudio = errors.New("audio file is empty")
)

const (
	transcribeKeyPrefix = "transcribe"
	defaultAudioExt     = ".mp3"
)

// Transcriber 上游语音识别能力
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer 上游语音合成能力
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SpeechService 语音服务
type SpeechService struct {
	transcriber Transcriber
	synthesizer Synthesizer
	store       storage.Storage
}

// NewSpeechService 创建语音服务
func NewSpeechService(transcriber Transcriber, synthesizer Synthesizer, store storage.Storage) *SpeechService {
	return &SpeechService{
		transcriber: transcriber,
		synthesizer: synthesizer,
		store:       store,
	}
}

// Transcribe 语音识别
// 流程: 1. 以唯一文件名暂存音频 -> 2. 调用上游识别 -> 3. 删除暂存文件（任何情况下都会执行）
func (s *SpeechService) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	ext := audioExt(filename)
	key := path.Join(transcribeKeyPrefix, id.Compact()+ext)
	logger := log.Ctx(ctx).With().Str("artifact", key).Logger()

	if err := s.store.Upload(ctx, key, audio); err != nil {
		// Upload 失败时自身会清理半成品
		return "", fmt.Errorf("failed to store audio: %w", err)
	}
	defer func() {
		// 请求被取消时也要删除
		if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
			logger.Error().Err(err).Msg("failed to remove transient audio")
		}
	}()

	info, err := s.store.GetFileInfo(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to stat audio: %w", err)
	}
	if info.Size == 0 {
		return "", ErrEmptyAudio
	}

	rc, err := s.store.Download(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to open audio: %w", err)
	}
	defer rc.Close()

	logger.Debug().Int64("size", info.Size).Msg("transcribing audio")

	return s.transcriber.Transcribe(ctx, rc, "audio"+ext)
}

// Synthesize 语音合成，返回完整的 mp3 数据
func (s *SpeechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	audio, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Debug().Int("text_len", len(text)).Int("audio_size", len(audio)).Msg("speech synthesized")

	return audio, nil
}

// audioExt 取上传文件名的扩展名，上游根据扩展名识别格式
func audioExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || len(ext) > 6 || strings.ContainsAny(ext, `/\`) {
		return defaultAudioExt
	}
	return ext
}
