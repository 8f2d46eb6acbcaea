package store

//go:generate mockgen -package=mocks -destination=mocks/mock_store.go github.com/KirkDiggler/teamtrivia/internal/store Store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/teamtrivia/internal/models"
)

// ErrAbsent is returned when a node, field or log does not exist
var ErrAbsent = errors.New("absent")

// Fields is the content of one node: named JSON values
type Fields map[string]json.RawMessage

// Entry is one record of an append-only log
type Entry struct {
	Key   string
	Value json.RawMessage
}

// Subscription stops delivery when closed. Closing from inside the
// subscription's own callback is allowed.
type Subscription interface {
	Close() error
}

// Store is a replicated key-value tree addressed by slash paths. It offers
// no compare-and-swap: writers re-read before acting and write idempotently.
type Store interface {
	// Read returns every field of the node at path
	Read(ctx context.Context, path string) (Fields, error)

	// ReadField returns a single field of the node at path
	ReadField(ctx context.Context, path, field string) (json.RawMessage, error)

	// Write replaces the node at path, dropping all its descendants
	Write(ctx context.Context, path string, fields map[string]any) error

	// Update merges fields into the node at path atomically
	Update(ctx context.Context, path string, fields map[string]any) error

	// Remove deletes the node at path, its log and all descendants
	Remove(ctx context.Context, path string) error

	// Append adds value to the log at path and returns its generated key
	Append(ctx context.Context, path string, value any) (string, error)

	// Entries returns the log at path in append order
	Entries(ctx context.Context, path string) ([]Entry, error)

	// Subscribe calls fn with a fresh read of path once on subscribe and
	// again after every mutation of path or any of its descendants,
	// including mutations made by the subscriber itself. An absent node is
	// delivered as empty Fields.
	Subscribe(ctx context.Context, path string, fn func(Fields)) (Subscription, error)

	// SubscribeAppends calls fn once per existing log entry, then once per
	// new entry, in append order
	SubscribeAppends(ctx context.Context, path string, fn func(Entry)) (Subscription, error)
}

// Join builds a store path from its segments
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Decode unmarshals a field into v
func (f Fields) Decode(field string, v any) error {
	raw, ok := f[field]
	if !ok {
		return fmt.Errorf("field %q: %w", field, ErrAbsent)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode field %q: %w", field, err)
	}
	return nil
}

// Has returns true if the field is present
func (f Fields) Has(field string) bool {
	_, ok := f[field]
	return ok
}

// DecodeStruct maps the node onto a struct using its json tags
func (f Fields) DecodeStruct(v any) error {
	data, err := json.Marshal(f)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// EncodeStruct turns a struct into node fields using its json tags
func EncodeStruct(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	fields := make(map[string]any, len(raw))
	for name, value := range raw {
		fields[name] = value
	}
	return fields, nil
}

func encodeFields(fields map[string]any) (map[string]string, error) {
	encoded := make(map[string]string, len(fields))
	for name, value := range fields {
		data, err := encodeValue(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode field %q: %w", name, err)
		}
		encoded[name] = string(data)
	}
	return encoded, nil
}

func encodeValue(value any) ([]byte, error) {
	if raw, ok := value.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(value)
}

// unavailable marks an I/O failure as transient
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", models.ErrStoreUnavailable, err)
}

// ancestors returns path followed by each of its parents
func ancestors(path string) []string {
	paths := []string{path}
	for {
		i := strings.LastIndex(path, "/")
		if i <= 0 {
			return paths
		}
		path = path[:i]
		paths = append(paths, path)
	}
}

// within reports whether candidate is path or one of its descendants
func within(candidate, path string) bool {
	return candidate == path || strings.HasPrefix(candidate, path+"/")
}

// related reports whether a subscriber of subPath observes a mutation of path
func related(subPath, path string) bool {
	return within(path, subPath) || within(subPath, path)
}
