package model

// ErrorResponse 错误响应（所有API共用）
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse 简单消息响应
type MessageResponse struct {
	Message string `json:"message"`
}

// TranscribeResponse 语音识别响应
type TranscribeResponse struct {
	Text string `json:"text"`
}

// ChatChunk 上游流式对话片段
// 终止片段为 Done 或 Err 二者之一，之后通道关闭
type ChatChunk struct {
	Content string
	Done    bool
	Err     error
}
