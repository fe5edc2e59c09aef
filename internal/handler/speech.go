package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/model"
	"portfolio-chat/internal/service"
)

const (
	// AudioFormField 上传音频的表单字段名
	AudioFormField = "audio_file"

	speechFilename = "speech.mp3"
)

// SpeechProcessor 语音服务
type SpeechProcessor interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SpeechHandler 语音处理器
type SpeechHandler struct {
	speechService SpeechProcessor
	maxUploadSize int64 // 单个音频文件上限，<= 0 表示不限制
}

// NewSpeechHandler 创建语音处理器
func NewSpeechHandler(speechService SpeechProcessor, maxUploadSize int64) *SpeechHandler {
	return &SpeechHandler{
		speechService: speechService,
		maxUploadSize: maxUploadSize,
	}
}

// Transcribe 语音识别接口
// @Summary      语音识别
// @Description  上传一个音频文件（字段 audio_file，最大 10MB），返回识别出的文本。
// @Tags         语音
// @Accept       multipart/form-data
// @Produce      json
// @Param        audio_file  formData  file  true  "音频文件"
// @Success      200  {object}  model.TranscribeResponse  "识别结果"
// @Failure      400  {object}  model.ErrorResponse  "未上传音频"
// @Failure      413  {object}  model.ErrorResponse  "音频文件过大"
// @Failure      500  {object}  model.ErrorResponse  "识别失败"
// @Router       /transcribe [post]
func (h *SpeechHandler) Transcribe(c *gin.Context) {
	ctx := c.Request.Context()

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "Audio file too large"})
			return
		}
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "No audio file provided"})
		return
	}
	defer func() {
		if err := form.RemoveAll(); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("failed to remove multipart temp files")
		}
	}()

	files := form.File[AudioFormField]
	switch {
	case len(files) == 0:
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "No audio file provided"})
		return
	case len(files) > 1:
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Exactly one audio file is allowed"})
		return
	}

	fh := files[0]
	if h.maxUploadSize > 0 && fh.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: "Audio file too large"})
		return
	}

	file, err := fh.Open()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to open uploaded audio")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Transcription failed: " + err.Error()})
		return
	}
	defer file.Close()

	text, err := h.speechService.Transcribe(ctx, fh.Filename, file)
	if err != nil {
		if errors.Is(err, service.ErrEmptyAudio) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Audio file is empty"})
			return
		}
		log.Ctx(ctx).Error().Err(err).Str("filename", fh.Filename).Int64("size", fh.Size).Msg("transcription failed")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Transcription failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.TranscribeResponse{Text: text})
}

// TTS 语音合成接口
// @Summary      语音合成
// @Description  将文本合成为 mp3 音频，以附件 speech.mp3 返回。
// @Tags         语音
// @Accept       json
// @Produce      audio/mpeg
// @Param        request  body      model.TTSRequest  true  "合成请求"
// @Success      200      {file}    binary  "mp3 音频"
// @Failure      400      {object}  model.ErrorResponse  "文本为空"
// @Failure      500      {object}  model.ErrorResponse  "合成失败"
// @Router       /tts [post]
func (h *SpeechHandler) TTS(c *gin.Context) {
	var req model.TTSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body"})
		return
	}

	ctx := c.Request.Context()

	audio, err := h.speechService.Synthesize(ctx, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyText) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Text is required"})
			return
		}
		log.Ctx(ctx).Error().Err(err).Int("text_len", len(req.Text)).Msg("speech synthesis failed")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "TTS failed: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+speechFilename)
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
