package broadcast

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Broadcaster 상태 변경 이벤트 팬아웃
type Broadcaster interface {
	// EmitAll 연결된 모든 클라이언트에게 전송
	EmitAll(event string, payload any)
	// EmitToOthers originID 연결을 제외한 모든 클라이언트에게 전송
	EmitToOthers(originID string, event string, payload any)
}

// Conn 메시지를 쓸 수 있는 연결 (*websocket.Conn 충족)
type Conn interface {
	WriteMessage(messageType int, data []byte) error
}

// Message WebSocket 메시지
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Client 허브에 등록된 연결
type Client struct {
	ID      string
	conn    Conn
	writeMu sync.Mutex
}

// write 연결 단위 직렬화된 쓰기
func (c *Client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub 현재 프로세스의 WebSocket 연결 집합
type Hub struct {
	clients map[string]*Client
	order   []string // 등록 순서
	mu      sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register 연결 등록 (같은 ID가 있으면 교체)
func (h *Hub) Register(id string, conn Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	client := &Client{ID: id, conn: conn}
	if _, exists := h.clients[id]; !exists {
		h.order = append(h.order, id)
	}
	h.clients[id] = client
	return client
}

// Unregister 연결 해제
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.clients[id]; !exists {
		return
	}
	delete(h.clients, id)
	for i, cid := range h.order {
		if cid == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Count 연결 수
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// EmitAll 모든 연결에 이벤트 전송
func (h *Hub) EmitAll(event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		return
	}
	h.deliver("", data)
}

// EmitToOthers 발신 연결을 제외하고 이벤트 전송
func (h *Hub) EmitToOthers(originID string, event string, payload any) {
	data, err := encode(event, payload)
	if err != nil {
		return
	}
	h.deliver(originID, data)
}

// Send 특정 연결에만 전송
func (h *Hub) Send(id string, event string, payload any) {
	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := encode(event, payload)
	if err != nil {
		return
	}
	if err := client.write(data); err != nil {
		log.Printf("[Hub] 메시지 전송 실패: conn=%s, err=%v", id, err)
	}
}

// deliver 직렬화된 메시지를 excludeID를 제외한 모든 연결에 쓴다
func (h *Hub) deliver(excludeID string, data []byte) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.order))
	for _, id := range h.order {
		if id == excludeID {
			continue
		}
		targets = append(targets, h.clients[id])
	}
	h.mu.RUnlock()

	// 한 연결의 실패가 나머지 전송을 막지 않음
	for _, client := range targets {
		if err := client.write(data); err != nil {
			log.Printf("[Hub] 메시지 전송 실패: conn=%s, err=%v", client.ID, err)
		}
	}
}

func encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		log.Printf("[Hub] 메시지 직렬화 실패: event=%s, err=%v", event, err)
		return nil, err
	}
	return data, nil
}
