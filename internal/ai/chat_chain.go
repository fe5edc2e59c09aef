package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"portfolio-chat/internal/model"
)

// ChatChain 对话链 - 封装 Eino Chain
// 结构: ChatTemplate(system persona + 单条用户消息) -> ChatModel
// 每次调用只携带固定的 system prompt 和本次用户消息，不包含历史轮次
type ChatChain struct {
	systemPrompt string
	runnable     compose.Runnable[map[string]any, *schema.Message]
}

// NewChatChain 创建对话链
func NewChatChain(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*ChatChain, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chatModel is required")
	}

	tpl := prompt.FromMessages(schema.FString,
		schema.SystemMessage("{persona}"),
		schema.UserMessage("{message}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.
		AppendChatTemplate(tpl).
		AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChatChain{
		systemPrompt: systemPrompt,
		runnable:     runnable,
	}, nil
}

// Stream 流式执行对话
// 返回的通道按上游到达顺序产出非空内容片段，最后产出一个 Done 或 Err 片段后关闭。
// ctx 取消时停止读取上游并直接关闭通道。
func (c *ChatChain) Stream(ctx context.Context, req *ChatRequest) (<-chan *model.ChatChunk, error) {
	reader, err := c.runnable.Stream(ctx, c.variables(req))
	if err != nil {
		return nil, err
	}

	ch := make(chan *model.ChatChunk)

	go func() {
		defer close(ch)
		defer reader.Close()

		send := func(chunk *model.ChatChunk) bool {
			select {
			case <-ctx.Done():
				return false
			case ch <- chunk:
				return true
			}
		}

		for {
			msg, err := reader.Recv()
			if errors.Is(err, io.EOF) {
				send(&model.ChatChunk{Done: true})
				return
			}
			if err != nil {
				send(&model.ChatChunk{Err: err})
				return
			}
			if msg == nil || msg.Content == "" {
				continue
			}
			if !send(&model.ChatChunk{Content: msg.Content}) {
				return
			}
		}
	}()

	return ch, nil
}

func (c *ChatChain) variables(req *ChatRequest) map[string]any {
	return map[string]any{
		"persona": c.systemPrompt,
		"message": req.Message,
	}
}
