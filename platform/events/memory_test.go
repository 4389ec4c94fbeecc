package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"landing_backend/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func newTestBus() *InMemoryBus {
	return NewInMemoryBus(logger.New("development"))
}

func TestPublishDoesNotBlockPublisher(t *testing.T) {
	bus := newTestBus()

	release := make(chan struct{})
	done := make(chan struct{})
	bus.Subscribe("test.slow", HandlerFunc(func(context.Context, Event) error {
		<-release
		close(done)
		return nil
	}))

	start := time.Now()
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "test.slow"})
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("Publish blocked on handler for %v", elapsed)
	}

	close(release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	bus := newTestBus()

	ran := make(chan struct{})
	bus.Subscribe("test.panic", HandlerFunc(func(context.Context, Event) error {
		panic("boom")
	}))
	bus.Subscribe("test.panic", HandlerFunc(func(context.Context, Event) error {
		close(ran)
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "test.panic"})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler did not run after sibling panicked")
	}
}

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := newTestBus()

	var order []string
	bus.Subscribe("test.sync", HandlerFunc(func(context.Context, Event) error {
		order = append(order, "first")
		return nil
	}))
	bus.Subscribe("test.sync", HandlerFunc(func(context.Context, Event) error {
		order = append(order, "second")
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.sync"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("handlers ran out of order: %v", order)
	}
}

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := newTestBus()

	errFirst := errors.New("first failed")
	var secondRan bool
	bus.Subscribe("test.errs", HandlerFunc(func(context.Context, Event) error {
		return errFirst
	}))
	bus.Subscribe("test.errs", HandlerFunc(func(context.Context, Event) error {
		secondRan = true
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.errs"})
	if !errors.Is(err, errFirst) {
		t.Fatalf("expected joined error to include handler failure, got %v", err)
	}
	if !secondRan {
		t.Fatal("a failing handler must not stop the remaining handlers")
	}
}

func TestSubscribeScopesByEventName(t *testing.T) {
	bus := newTestBus()

	var calls int
	bus.Subscribe("test.a", HandlerFunc(func(context.Context, Event) error {
		calls++
		return nil
	}))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "test.b"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
	if calls != 0 {
		t.Fatal("handler received an event it never subscribed to")
	}
}
