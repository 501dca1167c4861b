package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []*gomail.Message
	err      error
}

func (s *recordingSender) DialAndSend(m ...*gomail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m...)
	return s.err
}

func TestEmailWorkerDelivers(t *testing.T) {
	sender := &recordingSender{}
	w := NewEmailWorker(sender, "noreply@ticketdesk.local", 10, 2, zap.NewNop())

	done := make(chan Email, 3)
	w.sent = func(e Email, _ error) { done <- e }

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	for _, to := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		if !w.Enqueue(Email{To: to, Subject: "New ticket", Body: "hello"}) {
			t.Fatalf("enqueue %s failed", to)
		}
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
	cancel()
	w.Wait()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(sender.messages))
	}
	if from := sender.messages[0].GetHeader("From"); len(from) != 1 || from[0] != "noreply@ticketdesk.local" {
		t.Fatalf("unexpected From header: %v", from)
	}
}

func TestEmailWorkerDropsWhenFull(t *testing.T) {
	w := NewEmailWorker(&recordingSender{}, "from@x.io", 1, 1, zap.NewNop())
	if !w.Enqueue(Email{To: "a@x.io"}) {
		t.Fatal("first enqueue should succeed")
	}
	if w.Enqueue(Email{To: "b@x.io"}) {
		t.Fatal("second enqueue should be dropped while workers are stopped")
	}
}

func TestEmailWorkerSurvivesSendError(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	w := NewEmailWorker(sender, "from@x.io", 4, 1, zap.NewNop())
	results := make(chan error, 2)
	w.sent = func(_ Email, err error) { results <- err }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	w.Enqueue(Email{To: "a@x.io"})
	w.Enqueue(Email{To: "b@x.io"})

	for i := 0; i < 2; i++ {
		select {
		case err := <-results:
			if err == nil {
				t.Fatal("expected send error")
			}
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped after error")
		}
	}
}

func TestEmailWorkerFlushesQueueOnShutdown(t *testing.T) {
	sender := &recordingSender{}
	w := NewEmailWorker(sender, "from@x.io", 5, 2, zap.NewNop())
	for _, to := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		w.Enqueue(Email{To: to})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)
	w.Wait()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.messages) != 3 {
		t.Fatalf("queued emails must be delivered on shutdown, got %d", len(sender.messages))
	}
}
