package broadcast

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	err      error
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) decoded(t *testing.T) []Message {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Message, 0, len(f.messages))
	for _, raw := range f.messages {
		var m Message
		require.NoError(t, json.Unmarshal(raw, &m))
		out = append(out, m)
	}
	return out
}

func TestHub_EmitAll(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Register("a", a)
	hub.Register("b", b)

	hub.EmitAll("updatePresentation", map[string]string{"presentationId": "p1"})

	for _, c := range []*fakeConn{a, b} {
		msgs := c.decoded(t)
		require.Len(t, msgs, 1)
		assert.Equal(t, "updatePresentation", msgs[0].Type)
		assert.Equal(t, map[string]any{"presentationId": "p1"}, msgs[0].Payload)
	}
}

func TestHub_EmitToOthersSkipsOrigin(t *testing.T) {
	hub := NewHub()
	a, b, c := &fakeConn{}, &fakeConn{}, &fakeConn{}
	hub.Register("a", a)
	hub.Register("b", b)
	hub.Register("c", c)

	hub.EmitToOthers("b", "fieldUpdated", "x")

	assert.Len(t, a.decoded(t), 1)
	assert.Empty(t, b.decoded(t))
	assert.Len(t, c.decoded(t), 1)
}

func TestHub_WriteFailureDoesNotStopFanOut(t *testing.T) {
	hub := NewHub()
	broken := &fakeConn{err: errors.New("closed")}
	ok := &fakeConn{}
	hub.Register("broken", broken)
	hub.Register("ok", ok)

	hub.EmitAll("userEvent", []string{})

	assert.Len(t, ok.decoded(t), 1)
}

func TestHub_UnregisterAndSend(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Register("a", a)
	hub.Register("b", b)
	require.Equal(t, 2, hub.Count())

	hub.Unregister("a")
	hub.Unregister("missing")
	assert.Equal(t, 1, hub.Count())

	hub.EmitAll("userEvent", nil)
	hub.Send("b", "pong", nil)
	hub.Send("a", "pong", nil)

	assert.Empty(t, a.decoded(t))
	msgs := b.decoded(t)
	require.Len(t, msgs, 2)
	assert.Equal(t, "pong", msgs[1].Type)
}

func TestRedisRelay_HandleDeliversLocally(t *testing.T) {
	hub := NewHub()
	a, b := &fakeConn{}, &fakeConn{}
	hub.Register("a", a)
	hub.Register("b", b)

	relay := &RedisRelay{local: hub}

	data, err := encode("fieldUpdated", map[string]string{"fieldId": "f1"})
	require.NoError(t, err)
	envelope, err := json.Marshal(relayEnvelope{ExcludeID: "a", Data: data})
	require.NoError(t, err)

	relay.handle(string(envelope))
	relay.handle("not json")

	assert.Empty(t, a.decoded(t))
	msgs := b.decoded(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, "fieldUpdated", msgs[0].Type)
}
