package realtime

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, v.(Event))
	return nil
}

func (f *fakeConn) received() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func TestHubPublishReachesAllUserConns(t *testing.T) {
	hub := NewHub(nil)

	a := &fakeConn{}
	b := &fakeConn{}
	other := &fakeConn{}

	hub.Join("owner-1", a)
	hub.Join("owner-1", b)
	hub.Join("owner-2", other)

	hub.Publish("owner-1", "accomplishActivity", map[string]any{"activityID": "act-1"})

	require.Len(t, a.received(), 1)
	require.Len(t, b.received(), 1)
	assert.Empty(t, other.received())

	got := a.received()[0]
	assert.Equal(t, "accomplishActivity", got.Event)
}

func TestHubPublishNoSubscribersIsNoop(t *testing.T) {
	hub := NewHub(nil)

	assert.NotPanics(t, func() {
		hub.Publish("nobody", "accomplishActivity", nil)
	})
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := NewHub(nil)

	c := &fakeConn{}
	hub.Join("owner-1", c)
	hub.Leave("owner-1", c)

	hub.Publish("owner-1", "accomplishActivity", nil)

	assert.Empty(t, c.received())
	assert.Zero(t, hub.Connected("owner-1"))
}

func TestHubWriteErrorDoesNotStopOthers(t *testing.T) {
	hub := NewHub(nil)

	broken := &fakeConn{err: errors.New("conn reset")}
	healthy := &fakeConn{}

	hub.Join("owner-1", broken)
	hub.Join("owner-1", healthy)

	hub.Publish("owner-1", "accomplishActivity", nil)

	require.Len(t, healthy.received(), 1)
}

// gorilla/websocket admite un solo escritor por conexión; varios Publish
// simultáneos hacia el mismo usuario tienen que serializarse.
func TestHubConcurrentPublishSameConn(t *testing.T) {
	hub := NewHub(nil)

	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		serverConns <- ws
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	ws := <-serverConns
	hub.Join("owner-1", ws)

	// El cliente drena para que el buffer TCP no frene las escrituras.
	received := make(chan int, 1)
	go func() {
		n := 0
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				received <- n
				return
			}
			n++
		}
	}()

	const writers, perWriter = 16, 200
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				hub.Publish("owner-1", "accomplishActivity", map[string]any{"n": j})
			}
		}()
	}
	wg.Wait()

	_ = ws.Close()
	assert.Equal(t, writers*perWriter, <-received)
}

func TestHubConcurrentJoinPublish(t *testing.T) {
	hub := NewHub(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := &fakeConn{}
			hub.Join("owner-1", c)
			hub.Leave("owner-1", c)
		}()
		go func() {
			defer wg.Done()
			hub.Publish("owner-1", "accomplishActivity", nil)
		}()
	}
	wg.Wait()

	assert.Zero(t, hub.Connected("owner-1"))
}
