package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"portfolio-chat/internal/model"
)

// recorder 记录写出内容和 flush 次数
type recorder struct {
	buf     bytes.Buffer
	flushes int
	failAt  int // 第 n 次写出失败，0 表示不失败
	writes  int
}

func (r *recorder) Write(p []byte) (int, error) {
	r.writes++
	if r.failAt > 0 && r.writes >= r.failAt {
		return 0, errors.New("broken pipe")
	}
	return r.buf.Write(p)
}

func (r *recorder) Flush() { r.flushes++ }

// events 解析已写出的帧
func (r *recorder) events() []model.StreamEvent {
	var out []model.StreamEvent
	for _, frame := range strings.Split(r.buf.String(), "\n\n") {
		if frame == "" {
			continue
		}
		So(frame, ShouldStartWith, "data: ")
		var ev model.StreamEvent
		So(json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &ev), ShouldBeNil)
		out = append(out, ev)
	}
	return out
}

// chunksOf 构造上游通道
func chunksOf(chunks ...*model.ChatChunk) Opener {
	return func(ctx context.Context) (<-chan *model.ChatChunk, error) {
		ch := make(chan *model.ChatChunk, len(chunks))
		for _, c := range chunks {
			ch <- c
		}
		close(ch)
		return ch, nil
	}
}

// assertSequence 校验事件序列: 一个 conversation_id，随后若干 content，最后恰好一个终止事件
func assertSequence(events []model.StreamEvent) {
	So(len(events), ShouldBeGreaterThanOrEqualTo, 2)
	So(events[0].Type, ShouldEqual, model.EventTypeConversationID)
	for _, ev := range events[1 : len(events)-1] {
		So(ev.Type, ShouldEqual, model.EventTypeContent)
	}
	So(events[len(events)-1].IsTerminal(), ShouldBeTrue)
}

func TestRelay_Run(t *testing.T) {
	Convey("Relay.Run 事件序列", t, func() {
		ctx := context.Background()
		w := &recorder{}
		r := New(w)

		Convey("成功: conversation_id -> content... -> end", func() {
			err := r.Run(ctx, "conv-1", chunksOf(
				&model.ChatChunk{Content: "Hello"},
				&model.ChatChunk{Content: ""},
				&model.ChatChunk{Content: ", world"},
				&model.ChatChunk{Done: true},
			))
			So(err, ShouldBeNil)

			events := w.events()
			assertSequence(events)
			So(events, ShouldResemble, []model.StreamEvent{
				model.ConversationIDEvent("conv-1"),
				model.ContentEvent("Hello"),
				model.ContentEvent(", world"),
				model.EndEvent(),
			})
			So(w.flushes, ShouldEqual, 4)
			So(r.Terminated(), ShouldBeTrue)
			So(r.Stats().ContentEvents, ShouldEqual, 2)
			So(r.Stats().Terminal, ShouldEqual, model.EventTypeEnd)
		})

		Convey("线路格式与约定一致", func() {
			So(r.Run(ctx, "1718000000000", chunksOf(&model.ChatChunk{Content: "<b>&"}, &model.ChatChunk{Done: true})), ShouldBeNil)
			So(w.buf.String(), ShouldEqual,
				`data: {"type":"conversation_id","conversationId":"1718000000000"}`+"\n\n"+
					`data: {"type":"content","content":"<b>&"}`+"\n\n"+
					`data: {"type":"end"}`+"\n\n")
		})

		Convey("上游中途出错: 以 error 事件结束", func() {
			upstreamErr := errors.New("rate limit exceeded")
			err := r.Run(ctx, "conv-2", chunksOf(
				&model.ChatChunk{Content: "Hel"},
				&model.ChatChunk{Err: upstreamErr},
				&model.ChatChunk{Content: "ignored"},
				&model.ChatChunk{Done: true},
			))
			So(errors.Is(err, upstreamErr), ShouldBeTrue)

			events := w.events()
			assertSequence(events)
			So(len(events), ShouldEqual, 3)
			So(events[2], ShouldResemble, model.ErrorEvent("rate limit exceeded"))
		})

		Convey("打开上游失败: conversation_id 之后直接 error", func() {
			err := r.Run(ctx, "conv-3", func(ctx context.Context) (<-chan *model.ChatChunk, error) {
				return nil, errors.New("invalid api key")
			})
			So(err, ShouldNotBeNil)

			events := w.events()
			So(events, ShouldResemble, []model.StreamEvent{
				model.ConversationIDEvent("conv-3"),
				model.ErrorEvent("invalid api key"),
			})
		})

		Convey("conversation_id 在上游打开之前写出", func() {
			var seenBeforeOpen string
			_ = r.Run(ctx, "conv-4", func(ctx context.Context) (<-chan *model.ChatChunk, error) {
				seenBeforeOpen = w.buf.String()
				return chunksOf(&model.ChatChunk{Done: true})(ctx)
			})
			So(seenBeforeOpen, ShouldContainSubstring, `"type":"conversation_id"`)
		})

		Convey("上游通道提前关闭视为错误", func() {
			err := r.Run(ctx, "conv-5", chunksOf(&model.ChatChunk{Content: "a"}))
			So(errors.Is(err, ErrUpstreamClosed), ShouldBeTrue)

			events := w.events()
			assertSequence(events)
			So(events[len(events)-1].Type, ShouldEqual, model.EventTypeError)
		})

		Convey("ctx 取消: 以 error 事件结束并停止读取", func() {
			cctx, cancel := context.WithCancel(ctx)
			opened := make(chan struct{})
			err := r.Run(cctx, "conv-6", func(ctx context.Context) (<-chan *model.ChatChunk, error) {
				ch := make(chan *model.ChatChunk)
				close(opened)
				cancel()
				return ch, nil
			})
			<-opened
			So(errors.Is(err, context.Canceled), ShouldBeTrue)

			events := w.events()
			assertSequence(events)
			So(events[len(events)-1].Type, ShouldEqual, model.EventTypeError)
		})

		Convey("退出时取消传给上游的 ctx", func() {
			var upstreamCtx context.Context
			_ = r.Run(ctx, "conv-7", func(ctx context.Context) (<-chan *model.ChatChunk, error) {
				upstreamCtx = ctx
				return chunksOf(&model.ChatChunk{Done: true})(ctx)
			})
			So(upstreamCtx.Err(), ShouldNotBeNil)
		})

		Convey("写出失败时停止，不再写出终止事件", func() {
			w.failAt = 2
			err := r.Run(ctx, "conv-8", chunksOf(
				&model.ChatChunk{Content: "a"},
				&model.ChatChunk{Content: "b"},
				&model.ChatChunk{Done: true},
			))
			So(err, ShouldNotBeNil)
			So(w.writes, ShouldEqual, 2)
			So(len(w.events()), ShouldEqual, 1)
		})

		Convey("终止事件之后拒绝继续写出", func() {
			So(r.Emit(model.EndEvent()), ShouldBeNil)
			So(r.Emit(model.ContentEvent("late")), ShouldEqual, ErrTerminated)
			So(r.Emit(model.ErrorEvent("late")), ShouldEqual, ErrTerminated)
			So(len(w.events()), ShouldEqual, 1)
		})
	})
}

func TestEncode(t *testing.T) {
	Convey("Encode 只输出事件类型对应的字段", t, func() {
		cases := map[string]model.StreamEvent{
			`data: {"type":"conversation_id","conversationId":"abc"}` + "\n\n": model.ConversationIDEvent("abc"),
			`data: {"type":"content","content":"hi \"there\""}` + "\n\n":       model.ContentEvent(`hi "there"`),
			`data: {"type":"end"}` + "\n\n":                                    model.EndEvent(),
			`data: {"type":"error","error":"boom"}` + "\n\n":                   model.ErrorEvent("boom"),
		}
		for want, ev := range cases {
			got, err := Encode(ev)
			So(err, ShouldBeNil)
			So(string(got), ShouldEqual, want)
		}
	})
}
