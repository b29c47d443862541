package handler

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidesync/internal/broadcast"
	"slidesync/internal/model"
	"slidesync/internal/service"
	"slidesync/internal/session"
)

type recordConn struct {
	mu       sync.Mutex
	messages []broadcast.Message
}

func (r *recordConn) WriteMessage(_ int, data []byte) error {
	var m broadcast.Message
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
	return nil
}

func (r *recordConn) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.messages))
	for _, m := range r.messages {
		out = append(out, m.Type)
	}
	return out
}

func (r *recordConn) last() broadcast.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[len(r.messages)-1]
}

type finderFunc func(ctx context.Context, id string) (*model.Presentation, error)

func (f finderFunc) Get(ctx context.Context, id string) (*model.Presentation, error) {
	return f(ctx, id)
}

func newTestWSHandler(t *testing.T) (*PresentationWSHandler, *session.Registry, map[string]*recordConn) {
	t.Helper()

	hub := broadcast.NewHub()
	finder := finderFunc(func(_ context.Context, id string) (*model.Presentation, error) {
		if id != "p1" {
			return nil, service.ErrPresentationNotFound
		}
		return &model.Presentation{PresentationID: "p1", CreatorID: "alice"}, nil
	})
	registry := session.NewRegistry(finder, hub)

	conns := map[string]*recordConn{"c1": {}, "c2": {}}
	for id, conn := range conns {
		hub.Register(id, conn)
	}
	return NewPresentationWSHandler(hub, hub, registry, 0), registry, conns
}

func send(h *PresentationWSHandler, connID string, msgType string, payload any) {
	raw, _ := json.Marshal(map[string]any{"type": msgType, "payload": payload})
	h.handleMessage(context.Background(), connID, raw)
}

func TestUpdateFieldRelaysToOthersOnly(t *testing.T) {
	h, _, conns := newTestWSHandler(t)

	send(h, "c1", model.EventUpdateField, map[string]any{
		"slideId":      "s1",
		"fieldId":      "f1",
		"updatedField": map[string]any{"content": "typing..."},
	})

	assert.Empty(t, conns["c1"].types())
	require.Equal(t, []string{model.EventFieldUpdated}, conns["c2"].types())

	payload := conns["c2"].last().Payload.(map[string]any)
	assert.Equal(t, "s1", payload["slideId"])
	assert.Equal(t, "f1", payload["fieldId"])
	assert.Equal(t, map[string]any{"content": "typing..."}, payload["updatedField"])
}

func TestUpdateFieldWithoutIDsIsDropped(t *testing.T) {
	h, _, conns := newTestWSHandler(t)

	send(h, "c1", model.EventUpdateField, map[string]any{"slideId": "s1"})

	assert.Empty(t, conns["c2"].types())
}

func TestJoinBroadcastsSessionList(t *testing.T) {
	h, registry, conns := newTestWSHandler(t)

	send(h, "c1", model.EventJoinPresentation, map[string]string{"presentationId": "p1", "username": "alice"})
	send(h, "c2", model.EventJoinPresentation, map[string]string{"presentationId": "p1", "username": "bob"})

	require.Equal(t, 2, registry.Len())
	for _, conn := range conns {
		assert.Equal(t, []string{model.EventUserEvent, model.EventUserEvent}, conn.types())
	}

	list := conns["c1"].last().Payload.([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "creator", list[0].(map[string]any)["role"])
	assert.Equal(t, "viewer", list[1].(map[string]any)["role"])
}

func TestJoinUnknownPresentationIsSilent(t *testing.T) {
	h, registry, conns := newTestWSHandler(t)

	send(h, "c1", model.EventJoinPresentation, map[string]string{"presentationId": "missing", "username": "bob"})

	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, conns["c1"].types())
}

func TestUpdateRoleTargets(t *testing.T) {
	h, registry, _ := newTestWSHandler(t)
	send(h, "c2", model.EventJoinPresentation, map[string]string{"presentationId": "p1", "username": "bob"})

	// 다른 연결을 지정
	send(h, "c1", model.EventUpdateRole, map[string]string{"connectionId": "c2", "role": "creator"})
	s, _ := registry.Get("c2")
	assert.Equal(t, model.RoleCreator, s.Role)

	// 대상 생략 시 자기 자신
	send(h, "c2", model.EventUpdateRole, map[string]string{"role": "viewer"})
	s, _ = registry.Get("c2")
	assert.Equal(t, model.RoleViewer, s.Role)

	// 없는 연결은 무시
	send(h, "c1", model.EventUpdateRole, map[string]string{"connectionId": "ghost", "role": "creator"})
	assert.Equal(t, 1, registry.Len())
}

func TestPingPong(t *testing.T) {
	h, _, conns := newTestWSHandler(t)

	send(h, "c1", model.EventPing, nil)
	h.handleMessage(context.Background(), "c1", []byte(`{"type":"ping"}`))
	h.handleMessage(context.Background(), "c1", []byte(`garbage`))

	assert.Equal(t, []string{model.EventPong, model.EventPong}, conns["c1"].types())
	assert.Empty(t, conns["c2"].types())
}
