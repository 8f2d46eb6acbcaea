package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// memoryStore is a single-process Store. Every subscriber owns an ordered
// mailbox drained by its own goroutine, so callbacks may write to the
// store without blocking other subscribers.
type memoryStore struct {
	mu     sync.Mutex
	nodes  map[string]map[string]json.RawMessage
	logs   map[string][]Entry
	seq    uint64
	values map[*mailbox]string
	tails  map[*mailbox]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *memoryStore {
	return &memoryStore{
		nodes:  make(map[string]map[string]json.RawMessage),
		logs:   make(map[string][]Entry),
		values: make(map[*mailbox]string),
		tails:  make(map[*mailbox]string),
	}
}

// Read returns every field of the node at path
func (s *memoryStore) Read(_ context.Context, path string) (Fields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(path)
}

func (s *memoryStore) read(path string) (Fields, error) {
	node, ok := s.nodes[path]
	if !ok || len(node) == 0 {
		return nil, ErrAbsent
	}
	fields := make(Fields, len(node))
	for name, value := range node {
		fields[name] = append(json.RawMessage(nil), value...)
	}
	return fields, nil
}

// ReadField returns a single field of the node at path
func (s *memoryStore) ReadField(_ context.Context, path, field string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.nodes[path][field]
	if !ok {
		return nil, ErrAbsent
	}
	return append(json.RawMessage(nil), value...), nil
}

// Write replaces the node at path, dropping all its descendants
func (s *memoryStore) Write(_ context.Context, path string, fields map[string]any) error {
	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.drop(path)
	if len(encoded) > 0 {
		node := make(map[string]json.RawMessage, len(encoded))
		for name, value := range encoded {
			node[name] = json.RawMessage(value)
		}
		s.nodes[path] = node
	}
	s.notify(path)
	return nil
}

// Update merges fields into the node at path atomically
func (s *memoryStore) Update(_ context.Context, path string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node, ok := s.nodes[path]
	if !ok {
		node = make(map[string]json.RawMessage, len(encoded))
		s.nodes[path] = node
	}
	for name, value := range encoded {
		node[name] = json.RawMessage(value)
	}
	s.notify(path)
	return nil
}

// Remove deletes the node at path, its log and all descendants
func (s *memoryStore) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drop(path)
	s.notify(path)
	return nil
}

func (s *memoryStore) drop(path string) {
	for p := range s.nodes {
		if within(p, path) {
			delete(s.nodes, p)
		}
	}
	for p := range s.logs {
		if within(p, path) {
			delete(s.logs, p)
		}
	}
}

// Append adds value to the log at path and returns its generated key
func (s *memoryStore) Append(_ context.Context, path string, value any) (string, error) {
	data, err := encodeValue(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode log value: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	entry := Entry{Key: fmt.Sprintf("%020d", s.seq), Value: append(json.RawMessage(nil), data...)}
	s.logs[path] = append(s.logs[path], entry)

	for box, tailPath := range s.tails {
		if tailPath == path {
			e := entry
			box.push(func(fn any) { fn.(func(Entry))(e) })
		}
	}
	s.notify(path)
	return entry.Key, nil
}

// Entries returns the log at path in append order
func (s *memoryStore) Entries(_ context.Context, path string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.logs[path]...), nil
}

// Subscribe delivers a fresh read of path on subscribe and on every change
func (s *memoryStore) Subscribe(_ context.Context, path string, fn func(Fields)) (Subscription, error) {
	box := newMailbox(fn)

	s.mu.Lock()
	s.values[box] = path
	box.push(s.deliverer(path))
	s.mu.Unlock()

	go box.run()
	return &memorySubscription{store: s, box: box}, nil
}

// SubscribeAppends replays the log at path and then follows it
func (s *memoryStore) SubscribeAppends(_ context.Context, path string, fn func(Entry)) (Subscription, error) {
	box := newMailbox(fn)

	s.mu.Lock()
	for _, entry := range s.logs[path] {
		e := entry
		box.push(func(fn any) { fn.(func(Entry))(e) })
	}
	s.tails[box] = path
	s.mu.Unlock()

	go box.run()
	return &memorySubscription{store: s, box: box}, nil
}

// notify queues a fresh read for every subscriber observing path.
// Callers hold s.mu.
func (s *memoryStore) notify(path string) {
	for box, subPath := range s.values {
		if related(subPath, path) {
			box.push(s.deliverer(subPath))
		}
	}
}

func (s *memoryStore) deliverer(path string) func(any) {
	return func(fn any) {
		fields, err := s.Read(context.Background(), path)
		if err != nil {
			fields = Fields{}
		}
		fn.(func(Fields))(fields)
	}
}

func (s *memoryStore) unsubscribe(box *mailbox) {
	s.mu.Lock()
	delete(s.values, box)
	delete(s.tails, box)
	s.mu.Unlock()
}

type memorySubscription struct {
	once  sync.Once
	store *memoryStore
	box   *mailbox
}

// Close stops delivery
func (m *memorySubscription) Close() error {
	m.once.Do(func() {
		m.store.unsubscribe(m.box)
		m.box.close()
	})
	return nil
}

// mailbox is an unbounded FIFO of deliveries for one subscriber
type mailbox struct {
	fn     any
	mu     sync.Mutex
	queue  []func(any)
	signal chan struct{}
	done   chan struct{}
}

func newMailbox(fn any) *mailbox {
	return &mailbox{
		fn:     fn,
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (m *mailbox) push(delivery func(any)) {
	m.mu.Lock()
	m.queue = append(m.queue, delivery)
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

func (m *mailbox) pop() (func(any), bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil, false
	}
	delivery := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	return delivery, true
}

func (m *mailbox) run() {
	for {
		select {
		case <-m.done:
			return
		case <-m.signal:
		}
		for {
			select {
			case <-m.done:
				return
			default:
			}
			delivery, ok := m.pop()
			if !ok {
				break
			}
			delivery(m.fn)
		}
	}
}

func (m *mailbox) close() {
	close(m.done)
}
