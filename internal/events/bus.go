package events

import (
	"fmt"
	"log"
	"reflect"
	"sort"
	"sync"

	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
)

// DefaultPriority is used by Subscribe. Lower priorities run first.
const DefaultPriority = 100

// Topic is a typed, named channel. Declare topics once, at package level, in the
// package that owns the payload type.
type Topic[T any] struct {
	name string
}

// NewTopic declares a topic carrying payloads of type T
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the topic name
func (t Topic[T]) Name() string { return t.name }

func (t Topic[T]) payloadType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Subscription identifies a registered handler so it can be removed
type Subscription struct {
	topic string
	id    uint64
}

type listener struct {
	id       uint64
	priority int
	handle   func(any) error
}

// Bus manages typed event distribution
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]listener
	types     map[string]reflect.Type
	nextID    uint64
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]listener),
		types:     make(map[string]reflect.Type),
	}
}

// Subscribe adds a handler for topic with DefaultPriority
func Subscribe[T any](b *Bus, topic Topic[T], handler func(T) error) Subscription {
	return SubscribeWithPriority(b, topic, DefaultPriority, handler)
}

// SubscribeWithPriority adds a handler for topic.
// It panics if the topic name is already bound to another payload type.
func SubscribeWithPriority[T any](b *Bus, topic Topic[T], priority int, handler func(T) error) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.bind(topic.name, topic.payloadType()); err != nil {
		panic(err)
	}

	b.nextID++
	l := listener{
		id:       b.nextID,
		priority: priority,
		handle: func(payload any) error {
			return handler(payload.(T))
		},
	}
	b.listeners[topic.name] = append(b.listeners[topic.name], l)

	// Stable so equal priorities keep subscription order
	sort.SliceStable(b.listeners[topic.name], func(i, j int) bool {
		return b.listeners[topic.name][i].priority < b.listeners[topic.name][j].priority
	})

	return Subscription{topic: topic.name, id: l.id}
}

// Unsubscribe removes a handler. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[sub.topic]
	for i, l := range listeners {
		if l.id != sub.id {
			continue
		}
		b.listeners[sub.topic] = append(listeners[:i:i], listeners[i+1:]...)
		return
	}
}

// Publish sends payload to every handler of topic in priority order.
// The first handler error stops propagation and is returned.
func Publish[T any](b *Bus, topic Topic[T], payload T) error {
	b.mu.Lock()
	if err := b.bind(topic.name, topic.payloadType()); err != nil {
		b.mu.Unlock()
		return err
	}
	listeners := make([]listener, len(b.listeners[topic.name]))
	copy(listeners, b.listeners[topic.name])
	b.mu.Unlock()

	for _, l := range listeners {
		if err := l.handle(payload); err != nil {
			return fmt.Errorf("listener %d on %s failed: %w", l.id, topic.name, err)
		}
	}

	return nil
}

// MustPublish publishes and logs any handler error instead of returning it
func MustPublish[T any](b *Bus, topic Topic[T], payload T) {
	if err := Publish(b, topic, payload); err != nil {
		log.Printf("EventBus: publish %s: %v", topic.name, err)
	}
}

// ListenerCount returns the number of handlers registered for a topic name
func (b *Bus) ListenerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

// Clear removes all handlers and type bindings
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[string][]listener)
	b.types = make(map[string]reflect.Type)
}

// bind must be called with the lock held
func (b *Bus) bind(name string, typ reflect.Type) error {
	existing, ok := b.types[name]
	if !ok {
		b.types[name] = typ
		return nil
	}
	if existing != typ {
		return apperr.InvalidArgumentf("topic %s carries %s, not %s", name, existing, typ)
	}
	return nil
}
