// loadtest opens N websocket sessions against a running relay, joins each
// under a generated username and sends a burst of messages. Intended for
// manual load checks, not CI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/banterhq/banter/internal/model"
)

func main() {
	addr := flag.String("addr", "ws://localhost:8080/ws", "relay websocket endpoint")
	clients := flag.Int("clients", 10, "number of concurrent sessions")
	messages := flag.Int("messages", 20, "messages sent per session")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var wg sync.WaitGroup
	for i := range *clients {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := runSession(ctx, *addr, n, *messages); err != nil {
				log.Printf("session %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()
}

func runSession(ctx context.Context, addr string, n, messages int) error {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()

	username := fmt.Sprintf("loadtest-%d", n)

	// Drain server fan-out so the read side never backs up.
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	join := model.ClientEvent{Type: model.EventJoin, Username: username}
	if err := wsjson.Write(ctx, conn, join); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	for i := range messages {
		ev := model.ClientEvent{
			Type:      model.EventMessage,
			Username:  username,
			Text:      fmt.Sprintf("message %d from %s", i, username),
			Timestamp: time.Now().UTC(),
		}
		if err := wsjson.Write(ctx, conn, ev); err != nil {
			return fmt.Errorf("send %d: %w", i, err)
		}
	}

	return conn.Close(websocket.StatusNormalClosure, "done")
}
