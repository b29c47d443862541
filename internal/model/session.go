package model

// Session 연결 단위 사용자 세션 (메모리에만 존재)
type Session struct {
	ConnectionID   string `json:"connectionId"`
	PresentationID string `json:"presentationId"`
	Username       string `json:"username"`
	Role           Role   `json:"role"`
}
