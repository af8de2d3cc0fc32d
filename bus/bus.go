// Package bus is a small in-process publish/subscribe hub with retained
// messages. Components that run on different goroutines during a cycle
// (scan callback, orchestrator, status publisher) exchange results through
// it instead of holding references to each other.
package bus

import (
	"strings"
	"sync"
)

// Topic is a path such as {"wifi", "outcome"}.
type Topic []string

// T builds a topic from its parts.
func T(parts ...string) Topic { return Topic(parts) }

func (t Topic) String() string { return strings.Join(t, "/") }

type Message struct {
	Topic    Topic
	Payload  any
	Retained bool
}

type Subscription struct {
	topic Topic
	ch    chan *Message
	conn  *Connection
}

func (s *Subscription) Topic() Topic             { return s.topic }
func (s *Subscription) Channel() <-chan *Message { return s.ch }
func (s *Subscription) Unsubscribe()             { s.conn.Unsubscribe(s) }

type entry struct {
	subs     []*Subscription
	retained *Message
}

// Bus routes messages by exact topic. Subscribers never block a publisher:
// a full queue drops its oldest message.
type Bus struct {
	mu     sync.Mutex
	topics map[string]*entry
	qLen   int
}

// NewBus creates a bus whose subscriptions queue up to queueLen messages.
func NewBus(queueLen int) *Bus {
	if queueLen <= 0 {
		queueLen = 8
	}
	return &Bus{topics: make(map[string]*entry), qLen: queueLen}
}

func (b *Bus) entry(key string, create bool) *entry {
	e := b.topics[key]
	if e == nil && create {
		e = &entry{}
		b.topics[key] = e
	}
	return e
}

// Publish delivers msg to current subscribers. A retained message is kept
// for later subscribers; a retained nil payload clears it.
func (b *Bus) Publish(msg *Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.entry(msg.Topic.String(), msg.Retained)
	if e == nil {
		return
	}
	for _, sub := range e.subs {
		select {
		case sub.ch <- msg:
		default:
			<-sub.ch
			sub.ch <- msg
		}
	}
	if msg.Retained {
		if msg.Payload == nil {
			e.retained = nil
		} else {
			e.retained = msg
		}
	}
}

// Retained returns the retained message on topic, or nil.
func (b *Bus) Retained(topic Topic) *Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e := b.entry(topic.String(), false); e != nil {
		return e.retained
	}
	return nil
}

func (b *Bus) subscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e := b.entry(sub.topic.String(), true)
	e.subs = append(e.subs, sub)
	if e.retained != nil {
		sub.ch <- e.retained
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := sub.topic.String()
	e := b.entry(key, false)
	if e == nil {
		return
	}
	for i, s := range e.subs {
		if s == sub {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			break
		}
	}
	if len(e.subs) == 0 && e.retained == nil {
		delete(b.topics, key)
	}
}

// Connection groups one component's subscriptions.
type Connection struct {
	bus  *Bus
	id   string
	mu   sync.Mutex
	subs []*Subscription
}

func (b *Bus) NewConnection(id string) *Connection {
	return &Connection{bus: b, id: id}
}

func (c *Connection) ID() string { return c.id }
func (c *Connection) Bus() *Bus  { return c.bus }

func (c *Connection) Publish(topic Topic, payload any, retained bool) {
	c.bus.Publish(&Message{Topic: topic, Payload: payload, Retained: retained})
}

func (c *Connection) Subscribe(topic Topic) *Subscription {
	sub := &Subscription{topic: topic, ch: make(chan *Message, c.bus.qLen), conn: c}
	c.bus.subscribe(sub)
	c.mu.Lock()
	c.subs = append(c.subs, sub)
	c.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (c *Connection) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	found := false
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return
	}
	c.bus.unsubscribe(sub)
	close(sub.ch)
}

// Disconnect drops every subscription of this connection.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, sub := range subs {
		c.bus.unsubscribe(sub)
		close(sub.ch)
	}
}
