package model

// EventType 流事件类型
type EventType string

const (
	EventTypeConversationID EventType = "conversation_id"
	EventTypeContent        EventType = "content"
	EventTypeEnd            EventType = "end"
	EventTypeError          EventType = "error"
)

// StreamEvent 对话流中的单个事件
// 每种类型只序列化自身的字段，例如 {"type":"content","content":"..."}
type StreamEvent struct {
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversationId,omitempty"`
	Content        string    `json:"content,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// ConversationIDEvent 会话ID事件，流的第一个事件
func ConversationIDEvent(conversationID string) StreamEvent {
	return StreamEvent{Type: EventTypeConversationID, ConversationID: conversationID}
}

// ContentEvent 内容片段事件
func ContentEvent(content string) StreamEvent {
	return StreamEvent{Type: EventTypeContent, Content: content}
}

// EndEvent 正常结束事件
func EndEvent() StreamEvent {
	return StreamEvent{Type: EventTypeEnd}
}

// ErrorEvent 错误结束事件
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: EventTypeError, Error: message}
}

// IsTerminal 是否为终止事件
func (e StreamEvent) IsTerminal() bool {
	return e.Type == EventTypeEnd || e.Type == EventTypeError
}
