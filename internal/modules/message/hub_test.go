package message

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Register a hub-backed connection through a real upgrade so writes hit an
// actual websocket, then fan out sends from many goroutines. Unsynchronized
// writes to one connection make gorilla panic, so this fails loudly if the
// per-connection lock regresses.
func TestSendToUser_ConcurrentSends(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	up := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		hub.Register(7, ws)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !hub.IsOnline(7) {
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	const sends = 50
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if !hub.SendToUser(7, WSEvent{Type: "message.new", Payload: n}) {
				t.Errorf("send %d not delivered", n)
			}
		}(i)
	}

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	for got := 0; got < sends; got++ {
		var ev WSEvent
		if err := client.ReadJSON(&ev); err != nil {
			t.Fatalf("read after %d events: %v", got, err)
		}
		if ev.Type != "message.new" {
			t.Fatalf("unexpected event type %q", ev.Type)
		}
	}
	wg.Wait()
}

func TestRegister_SecondLoginReplacesConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	hub.Register(7, nil)
	hub.Register(7, nil)
	if got := hub.OnlineCount(); got != 1 {
		t.Fatalf("OnlineCount = %d, want 1", got)
	}

	hub.Unregister(7)
	if hub.IsOnline(7) {
		t.Fatal("user still online after unregister")
	}
}
