package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := hub.Subscribe(ctx, 4)
	hub.Publish(Event{Type: EventScoreRecalculated, Data: map[string]any{"challenge_id": int64(1)}})

	select {
	case evt := <-sub:
		if evt.Type != EventScoreRecalculated {
			t.Fatalf("type = %s", evt.Type)
		}
		if evt.Timestamp == 0 {
			t.Error("timestamp should be filled in")
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestHubUnsubscribeOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	sub := hub.Subscribe(ctx, 1)
	cancel()

	// 通道最终关闭
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-sub:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestHubDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = hub.Subscribe(ctx, 1)
	// 缓冲已满后继续发布不应阻塞
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Publish(Event{Type: EventLogCreated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on slow consumer")
	}
}
