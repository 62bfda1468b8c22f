package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"aura-backend/internal/shared/logger"

	"golang.org/x/sync/errgroup"
)

// Event is something that happened to a chat or event group.
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler reacts to one event. A returned error triggers a retry.
type Handler func(ctx context.Context, event Event) error

// Publisher is the side of the bus use cases depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	PublishAndForget(ctx context.Context, event Event)
}

// Config tunes delivery.
type Config struct {
	// Concurrent runs the handlers of one event in parallel.
	Concurrent bool
	// Attempts is the number of tries per handler; values below 1 mean 1.
	Attempts int
	// Backoff is the wait before the second attempt and doubles after that.
	Backoff time.Duration
}

// EventBus delivers domain events to in-process subscribers such as the
// activity recorder.
type EventBus struct {
	mu       sync.RWMutex
	subs     map[string][]Handler
	log      logger.Logger
	cfg      Config
	inflight sync.WaitGroup
}

// NewEventBus returns a bus with sequential delivery and three attempts per handler.
func NewEventBus(log logger.Logger) *EventBus {
	return New(log, Config{Attempts: 3, Backoff: 50 * time.Millisecond})
}

// New returns a bus using cfg.
func New(log logger.Logger, cfg Config) *EventBus {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &EventBus{
		subs: make(map[string][]Handler),
		log:  log.WithComponent("eventbus"),
		cfg:  cfg,
	}
}

// Subscribe adds handler for eventType.
func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], handler)
	b.mu.Unlock()
}

// SubscribeAll registers handler for every given type.
func (b *EventBus) SubscribeAll(handler Handler, eventTypes ...string) {
	for _, t := range eventTypes {
		b.Subscribe(t, handler)
	}
}

// SubscriberCount is the number of handlers registered for eventType.
func (b *EventBus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}

// Publish delivers event to every handler of its type. A failing handler
// does not stop the others; their final errors are joined.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subs[event.Type()]...)
	b.mu.RUnlock()

	errs := make([]error, len(handlers))
	if b.cfg.Concurrent {
		var g errgroup.Group
		for i, h := range handlers {
			g.Go(func() error {
				errs[i] = b.deliver(ctx, event, h)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, h := range handlers {
			errs[i] = b.deliver(ctx, event, h)
		}
	}
	return errors.Join(errs...)
}

func (b *EventBus) deliver(ctx context.Context, event Event, h Handler) error {
	wait := b.cfg.Backoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = h(ctx, event); err == nil {
			return nil
		}
		if attempt == b.cfg.Attempts {
			break
		}
		b.log.Warnf("%s handler failed (attempt %d/%d): %v", event.Type(), attempt, b.cfg.Attempts, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("%s handler gave up after %d attempts: %w", event.Type(), b.cfg.Attempts, err)
}

// PublishAndForget publishes in the background. The request context's
// cancellation is detached so handlers outlive the HTTP response.
func (b *EventBus) PublishAndForget(ctx context.Context, event Event) {
	ctx = context.WithoutCancel(ctx)
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		if err := b.Publish(ctx, event); err != nil {
			b.log.WithContext(ctx).Errorf("dropped event %s: %v", event.Type(), err)
		}
	}()
}

// Drain waits for background publishes to finish or ctx to end.
func (b *EventBus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
