// Package relay 将上游流式对话转换为前端使用的事件流
//
// 事件顺序: conversation_id -> content* -> (end | error)，终止事件之后不再写出任何内容。
// 每个事件编码为一帧 "data: <json>\n\n" 并立即 flush。
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"portfolio-chat/internal/model"
)

// ErrTerminated 终止事件之后继续写出
var ErrTerminated = errors.New("relay: stream already terminated")

// ErrUpstreamClosed 上游通道在终止片段之前关闭
var ErrUpstreamClosed = errors.New("upstream stream closed unexpectedly")

// Writer 事件输出目标，gin.ResponseWriter 满足该接口
type Writer interface {
	io.Writer
	Flush()
}

// Opener 打开上游流
type Opener func(ctx context.Context) (<-chan *model.ChatChunk, error)

// Stats 一次转发的统计信息
type Stats struct {
	ContentEvents int
	ContentBytes  int
	Terminal      model.EventType
}

// Relay 单个连接上的事件写出器
type Relay struct {
	w          Writer
	terminated bool
	stats      Stats
}

// New 创建事件写出器
func New(w Writer) *Relay {
	return &Relay{w: w}
}

// Emit 写出一个事件
func (r *Relay) Emit(ev model.StreamEvent) error {
	if r.terminated {
		return ErrTerminated
	}
	if ev.IsTerminal() {
		r.terminated = true
		r.stats.Terminal = ev.Type
	}
	if ev.Type == model.EventTypeContent {
		r.stats.ContentEvents++
		r.stats.ContentBytes += len(ev.Content)
	}

	frame, err := Encode(ev)
	if err != nil {
		return err
	}
	if _, err := r.w.Write(frame); err != nil {
		return err
	}
	r.w.Flush()
	return nil
}

// Terminated 是否已写出终止事件
func (r *Relay) Terminated() bool {
	return r.terminated
}

// Stats 返回统计信息
func (r *Relay) Stats() Stats {
	return r.stats
}

// Run 执行一次完整转发
//
// 先写出 conversation_id，再打开上游，逐个转发内容片段，最后写出唯一的终止事件。
// 返回值仅用于记录日志：上游错误已经以 error 事件写给客户端；
// 写出失败（客户端断开）时直接返回，不再尝试写出。
func (r *Relay) Run(ctx context.Context, conversationID string, open Opener) error {
	// 退出时取消上游，避免读取协程阻塞
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := r.Emit(model.ConversationIDEvent(conversationID)); err != nil {
		return err
	}

	chunks, err := open(ctx)
	if err != nil {
		return r.fail(err)
	}

	for {
		select {
		case <-ctx.Done():
			return r.fail(ctx.Err())
		case chunk, ok := <-chunks:
			switch {
			case !ok:
				if ctx.Err() != nil {
					return r.fail(ctx.Err())
				}
				return r.fail(ErrUpstreamClosed)
			case chunk.Err != nil:
				return r.fail(chunk.Err)
			case chunk.Done:
				return r.Emit(model.EndEvent())
			case chunk.Content == "":
				continue
			default:
				if err := r.Emit(model.ContentEvent(chunk.Content)); err != nil {
					return err
				}
			}
		}
	}
}

// fail 写出 error 事件并返回原始错误
func (r *Relay) fail(cause error) error {
	msg := cause.Error()
	if msg == "" {
		msg = "unknown error"
	}
	if err := r.Emit(model.ErrorEvent(msg)); err != nil && !errors.Is(err, ErrTerminated) {
		return fmt.Errorf("%w (write error event: %v)", cause, err)
	}
	return cause
}

// Encode 将事件编码为一帧 "data: <json>\n\n"
func Encode(ev model.StreamEvent) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("data: ")

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return nil, fmt.Errorf("failed to encode stream event: %w", err)
	}
	// Encode 已追加一个换行
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
