package session

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventKind names a session change.
type EventKind string

const (
	EventSignIn  EventKind = "signin"
	EventSignOut EventKind = "signout"
	EventRefresh EventKind = "refresh"
)

// Event is broadcast to every provider when a session changes.
// Revoked lists token ids that must no longer be accepted.
type Event struct {
	Kind    EventKind
	Subject string
	Revoked []string
	Expires time.Time
}

// Bus is the abstraction over different broadcast backends.
type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// InMemory broadcasts within one process for dev/testing.
type InMemory struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
	size int
}

type subscriber struct {
	ch   chan Event
	done chan struct{}
}

// NewInMemory creates a bus whose subscribers buffer up to size events.
func NewInMemory(size int) *InMemory {
	return &InMemory{subs: make(map[*subscriber]struct{}), size: size}
}

// Publish delivers evt to every current subscriber.
func (b *InMemory) Publish(ctx context.Context, evt Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.ch <- evt:
		case <-sub.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Subscribe returns a channel that closes when ctx ends.
func (b *InMemory) Subscribe(ctx context.Context) (<-chan Event, error) {
	sub := &subscriber{ch: make(chan Event, b.size), done: make(chan struct{})}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		// done unblocks a Publish stuck on this subscriber before we take the lock.
		close(sub.done)
		b.mu.Lock()
		delete(b.subs, sub)
		close(sub.ch)
		b.mu.Unlock()
	}()
	return sub.ch, nil
}

// RedisBus implements the bus over Redis PUBLISH/SUBSCRIBE.
type RedisBus struct {
	client  *redis.Client
	channel string
}

// NewRedisBus connects to redis with short timeouts.
func NewRedisBus(addr, channel string) *RedisBus {
	if channel == "" {
		channel = "portal:sessions"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &RedisBus{client: client, channel: channel}
}

// Publish sends evt to every subscribed process.
func (b *RedisBus) Publish(ctx context.Context, evt Event) error {
	return b.client.Publish(ctx, b.channel, serialize(evt)).Err()
}

// Subscribe streams events until ctx ends. It returns once the subscription is confirmed.
func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, error) {
	sub := b.client.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	out := make(chan Event)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				evt, err := deserialize(msg.Payload)
				if err != nil {
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Healthy verifies redis connectivity.
func (b *RedisBus) Healthy(ctx context.Context) bool {
	if b == nil || b.client == nil {
		return false
	}
	return b.client.Ping(ctx).Err() == nil
}

// Close releases the redis connection pool.
func (b *RedisBus) Close() error {
	return b.client.Close()
}

// serialize stores events as kind|subject|expiry|id,id.
func serialize(evt Event) string {
	var exp string
	if !evt.Expires.IsZero() {
		exp = strconv.FormatInt(evt.Expires.Unix(), 10)
	}
	return string(evt.Kind) + "|" + evt.Subject + "|" + exp + "|" + strings.Join(evt.Revoked, ",")
}

func deserialize(s string) (Event, error) {
	parts := strings.SplitN(s, "|", 4)
	if len(parts) != 4 {
		return Event{}, errors.New("malformed session event")
	}
	evt := Event{Kind: EventKind(parts[0]), Subject: parts[1]}
	if parts[2] != "" {
		sec, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Event{}, err
		}
		evt.Expires = time.Unix(sec, 0)
	}
	if parts[3] != "" {
		evt.Revoked = strings.Split(parts[3], ",")
	}
	return evt, nil
}
