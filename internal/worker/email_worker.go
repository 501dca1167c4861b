package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Email is a plain-text message queued for delivery.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailWorker drains a bounded queue with a fixed number of goroutines.
type EmailWorker struct {
	sender  Sender
	from    string
	queue   chan Email
	workers int
	logger  *zap.Logger
	wg      sync.WaitGroup
	sent    func(Email, error)
}

// NewEmailWorker builds a worker. Nothing is delivered until Start is called.
func NewEmailWorker(sender Sender, from string, queueSize, workers int, logger *zap.Logger) *EmailWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	if workers <= 0 {
		workers = 1
	}
	return &EmailWorker{
		sender:  sender,
		from:    from,
		queue:   make(chan Email, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// NewSMTPDialer builds a gomail dialer for the configured relay.
func NewSMTPDialer(host string, port int, username, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, username, password)
}

// Enqueue schedules an email without blocking. It reports false when the
// queue is full and the email was dropped.
func (w *EmailWorker) Enqueue(email Email) bool {
	select {
	case w.queue <- email:
		return true
	default:
		w.logger.Warn("email queue full, dropping message", zap.String("to", email.To), zap.String("subject", email.Subject))
		return false
	}
}

// Start launches the workers. Once ctx is cancelled they deliver what is
// still queued and exit; Wait blocks until they have.
func (w *EmailWorker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go func(id int) {
			defer w.wg.Done()
			w.run(ctx, id)
		}(i)
	}
	w.logger.Info("email workers started", zap.Int("workers", w.workers))
}

// Wait blocks until every worker has returned.
func (w *EmailWorker) Wait() {
	w.wg.Wait()
}

func (w *EmailWorker) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			w.drain(id)
			return
		case email := <-w.queue:
			w.deliver(id, email)
		}
	}
}

// drain delivers whatever is still queued once shutdown starts.
func (w *EmailWorker) drain(id int) {
	flushed := 0
	for {
		select {
		case email := <-w.queue:
			w.deliver(id, email)
			flushed++
		default:
			if flushed > 0 {
				w.logger.Info("flushed queued emails on shutdown", zap.Int("worker", id), zap.Int("count", flushed))
			}
			return
		}
	}
}

func (w *EmailWorker) deliver(id int, email Email) {
	err := w.send(email)
	if err != nil {
		w.logger.Error("email delivery failed",
			zap.Int("worker", id),
			zap.String("to", email.To),
			zap.Error(err))
	} else {
		w.logger.Debug("email delivered", zap.Int("worker", id), zap.String("to", email.To))
	}
	if w.sent != nil {
		w.sent(email, err)
	}
}

func (w *EmailWorker) send(email Email) error {
	m := gomail.NewMessage()
	m.SetHeader("From", w.from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/plain", email.Body)
	return w.sender.DialAndSend(m)
}
