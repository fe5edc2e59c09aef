package model

// ChatRequest 对话请求
// ConversationID 仅为兼容前端而接收，服务端不据此查找历史
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversationId,omitempty"`
}

// TTSRequest 语音合成请求
type TTSRequest struct {
	Text string `json:"text"`
}
