package handler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"

	"slidesync/internal/broadcast"
	"slidesync/internal/model"
	"slidesync/internal/session"
)

// PresentationWSHandler 실시간 편집/세션 WebSocket 핸들러
type PresentationWSHandler struct {
	hub          *broadcast.Hub
	broadcaster  broadcast.Broadcaster
	registry     *session.Registry
	writeTimeout time.Duration
}

// NewPresentationWSHandler PresentationWSHandler 생성
func NewPresentationWSHandler(hub *broadcast.Hub, broadcaster broadcast.Broadcaster, registry *session.Registry, writeTimeout time.Duration) *PresentationWSHandler {
	return &PresentationWSHandler{
		hub:          hub,
		broadcaster:  broadcaster,
		registry:     registry,
		writeTimeout: writeTimeout,
	}
}

// WSMessage 클라이언트 → 서버 메시지
type WSMessage struct {
	Type    string          `json:"type"` // updateField, joinPresentation, updateRole, ping
	Payload json.RawMessage `json:"payload,omitempty"`
}

// FieldPreviewPayload 입력 중인 필드 미리보기 (저장하지 않음)
type FieldPreviewPayload struct {
	SlideID      string          `json:"slideId" validate:"required"`
	FieldID      string          `json:"fieldId" validate:"required"`
	UpdatedField json.RawMessage `json:"updatedField"`
}

// JoinPayload 프레젠테이션 입장
type JoinPayload struct {
	PresentationID string `json:"presentationId" validate:"required"`
	Username       string `json:"username" validate:"required"`
}

// UpdateRolePayload 역할 변경. ConnectionID가 비면 보낸 연결 자신이 대상
type UpdateRolePayload struct {
	ConnectionID string `json:"connectionId"`
	Role         string `json:"role" validate:"required"`
}

// ConnectedPayload 연결 직후 전송하는 연결 ID
type ConnectedPayload struct {
	ConnectionID string `json:"connectionId"`
}

// deadlineConn 쓰기마다 deadline을 거는 연결
type deadlineConn struct {
	conn    *websocket.Conn
	timeout time.Duration
}

func (d *deadlineConn) WriteMessage(messageType int, data []byte) error {
	if d.timeout > 0 {
		d.conn.SetWriteDeadline(time.Now().Add(d.timeout))
	}
	return d.conn.WriteMessage(messageType, data)
}

// HandleWebSocket WebSocket 연결 처리
func (h *PresentationWSHandler) HandleWebSocket(c *websocket.Conn) {
	// 패닉 복구 - 서버 크래시 방지
	defer func() {
		if r := recover(); r != nil {
			log.Printf("프레젠테이션 WebSocket 패닉 복구: %v", r)
		}
	}()

	connID := uuid.NewString()
	h.hub.Register(connID, &deadlineConn{conn: c, timeout: h.writeTimeout})
	log.Printf("[WS] New client connected: conn=%s", connID)

	// 연결 해제 시 정리
	defer func() {
		h.hub.Unregister(connID)
		h.registry.Leave(connID)
		c.Close()
		log.Printf("[WS] Client disconnected: conn=%s", connID)
	}()

	h.hub.Send(connID, model.EventConnected, ConnectedPayload{ConnectionID: connID})

	// 메시지 수신 루프
	for {
		_, msgBytes, err := c.ReadMessage()
		if err != nil {
			break
		}
		h.handleMessage(context.Background(), connID, msgBytes)
	}
}

// handleMessage 수신 메시지 분기. 실시간 이벤트는 오류를 클라이언트에 돌려주지 않는다.
func (h *PresentationWSHandler) handleMessage(ctx context.Context, connID string, raw []byte) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return
	}

	switch msg.Type {
	case model.EventUpdateField:
		var payload FieldPreviewPayload
		if !decodePayload(msg.Payload, &payload) {
			return
		}
		h.broadcaster.EmitToOthers(connID, model.EventFieldUpdated, payload)

	case model.EventJoinPresentation:
		var payload JoinPayload
		if !decodePayload(msg.Payload, &payload) {
			return
		}
		if _, err := h.registry.Join(ctx, connID, payload.PresentationID, payload.Username); err != nil {
			log.Printf("[WS] joinPresentation ignored: conn=%s, presentation=%s, err=%v", connID, payload.PresentationID, err)
		}

	case model.EventUpdateRole:
		var payload UpdateRolePayload
		if !decodePayload(msg.Payload, &payload) {
			return
		}
		target := payload.ConnectionID
		if target == "" {
			target = connID
		}
		h.registry.UpdateRole(target, model.Role(payload.Role))

	case model.EventPing:
		h.hub.Send(connID, model.EventPong, nil)
	}
}

func decodePayload(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return validate.Struct(out) == nil
}
