package service

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"portfolio-chat/internal/ai"
	"portfolio-chat/internal/model"
	"portfolio-chat/internal/pkg/id"
)

type fakeStreamer struct {
	calls    int
	messages []string
	err      error
}

func (f *fakeStreamer) ChatStream(ctx context.Context, req *ai.ChatRequest) (<-chan *model.ChatChunk, error) {
	f.calls++
	f.messages = append(f.messages, req.Message)
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan *model.ChatChunk, 2)
	ch <- &model.ChatChunk{Content: "hi"}
	ch <- &model.ChatChunk{Done: true}
	close(ch)
	return ch, nil
}

func TestChatService_StartStream(t *testing.T) {
	Convey("ChatService.StartStream", t, func() {
		ctx := context.Background()
		streamer := &fakeStreamer{}
		svc := NewChatService(streamer)

		Convey("空消息被拒绝且不调用上游", func() {
			session, err := svc.StartStream(ctx, &model.ChatRequest{Message: ""})
			So(errors.Is(err, ErrEmptyMessage), ShouldBeTrue)
			So(session, ShouldBeNil)
			So(streamer.calls, ShouldEqual, 0)
		})

		Convey("仅含空白的消息原样转发", func() {
			session, err := svc.StartStream(ctx, &model.ChatRequest{Message: " \n\t"})
			So(err, ShouldBeNil)

			_, err = session.Open(ctx)
			So(err, ShouldBeNil)
			So(streamer.messages, ShouldResemble, []string{" \n\t"})
		})

		Convey("准备阶段不调用上游", func() {
			session, err := svc.StartStream(ctx, &model.ChatRequest{Message: "Hello"})
			So(err, ShouldBeNil)
			So(id.IsValid(session.ConversationID), ShouldBeTrue)
			So(streamer.calls, ShouldEqual, 0)

			Convey("Open 转发原始消息", func() {
				ch, err := session.Open(ctx)
				So(err, ShouldBeNil)
				So(streamer.calls, ShouldEqual, 1)
				So(streamer.messages, ShouldResemble, []string{"Hello"})

				first := <-ch
				So(first.Content, ShouldEqual, "hi")
			})
		})

		Convey("每次请求生成新的会话ID，忽略客户端传入的ID", func() {
			a, err := svc.StartStream(ctx, &model.ChatRequest{Message: "a", ConversationID: "client-id"})
			So(err, ShouldBeNil)
			b, err := svc.StartStream(ctx, &model.ChatRequest{Message: "b", ConversationID: "client-id"})
			So(err, ShouldBeNil)

			So(a.ConversationID, ShouldNotEqual, "client-id")
			So(a.ConversationID, ShouldNotEqual, b.ConversationID)
		})

		Convey("上游打开失败原样返回", func() {
			streamer.err = errors.New("upstream down")
			session, err := svc.StartStream(ctx, &model.ChatRequest{Message: "Hello"})
			So(err, ShouldBeNil)

			_, err = session.Open(ctx)
			So(err, ShouldEqual, streamer.err)
		})
	})
}
