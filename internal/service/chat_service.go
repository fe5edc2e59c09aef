package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/ai"
	"portfolio-chat/internal/model"
	"portfolio-chat/internal/pkg/id"
	"portfolio-chat/internal/relay"
)

// ErrEmptyMessage 消息为空
var ErrEmptyMessage = errors.New("message is required")

// ChatStreamer 上游流式对话能力
type ChatStreamer interface {
	ChatStream(ctx context.Context, req *ai.ChatRequest) (<-chan *model.ChatChunk, error)
}

// ChatService 对话服务 - 业务逻辑层
// 每个请求独立: 不保存、也不读取历史对话
type ChatService struct {
	streamer ChatStreamer
	newID    func() string
}

// NewChatService 创建对话服务
func NewChatService(streamer ChatStreamer) *ChatService {
	return &ChatService{
		streamer: streamer,
		newID:    id.New,
	}
}

// ChatSession 一次流式对话
// Open 在 relay 写出 conversation_id 之后才被调用
type ChatSession struct {
	ConversationID string
	Open           relay.Opener
}

// StartStream 校验请求并准备一次流式对话，不会调用上游
func (s *ChatService) StartStream(ctx context.Context, req *model.ChatRequest) (*ChatSession, error) {
	// 仅含空白的消息照常转发给上游
	message := req.Message
	if message == "" {
		return nil, ErrEmptyMessage
	}

	conversationID := s.newID()

	logger := log.Ctx(ctx).With().Str("conversation_id", conversationID).Logger()
	if req.ConversationID != "" {
		// 客户端传回的会话ID不关联任何服务端状态
		logger.Debug().
			Str("client_conversation_id", req.ConversationID).
			Bool("known_format", id.IsValid(req.ConversationID)).
			Msg("ignoring client conversation id")
	}

	return &ChatSession{
		ConversationID: conversationID,
		Open: func(ctx context.Context) (<-chan *model.ChatChunk, error) {
			logger.Debug().Int("message_len", len(message)).Msg("opening upstream chat stream")
			return s.streamer.ChatStream(ctx, &ai.ChatRequest{Message: message})
		},
	}, nil
}
