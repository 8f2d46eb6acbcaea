package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Key prefixes for Redis
	nodeKeyPrefix    = "node:"
	logKeyPrefix     = "log:"
	channelKeyPrefix = "changes:"

	// logValueField is the stream entry field holding the JSON value
	logValueField = "v"

	defaultBlock = time.Second
	retryDelay   = 500 * time.Millisecond
)

// RedisConfig holds configuration for the Redis store
type RedisConfig struct {
	// Redis client
	RedisClient *redis.Client

	// Namespace is prepended to every key and channel
	Namespace string

	// Block bounds each XREAD call so log subscriptions notice cancellation
	Block time.Duration

	Logger logrus.FieldLogger
}

// redisStore keeps each node in a hash, each log in a stream, and
// announces mutations on a pub/sub channel per path
type redisStore struct {
	client    *redis.Client
	namespace string
	block     time.Duration
	logger    logrus.FieldLogger
}

// NewRedis creates a new Redis-backed store
func NewRedis(cfg *RedisConfig) (*redisStore, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	block := cfg.Block
	if block <= 0 {
		block = defaultBlock
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &redisStore{
		client:    cfg.RedisClient,
		namespace: cfg.Namespace,
		block:     block,
		logger:    logger.WithField("component", "store"),
	}, nil
}

func (s *redisStore) nodeKey(path string) string {
	return s.namespace + nodeKeyPrefix + path
}

func (s *redisStore) logKey(path string) string {
	return s.namespace + logKeyPrefix + path
}

func (s *redisStore) channel(path string) string {
	return s.namespace + channelKeyPrefix + path
}

// Read returns every field of the node at path
func (s *redisStore) Read(ctx context.Context, path string) (Fields, error) {
	values, err := s.client.HGetAll(ctx, s.nodeKey(path)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(values) == 0 {
		return nil, ErrAbsent
	}

	fields := make(Fields, len(values))
	for name, value := range values {
		fields[name] = json.RawMessage(value)
	}
	return fields, nil
}

// ReadField returns a single field of the node at path
func (s *redisStore) ReadField(ctx context.Context, path, field string) (json.RawMessage, error) {
	value, err := s.client.HGet(ctx, s.nodeKey(path), field).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrAbsent
		}
		return nil, unavailable(err)
	}
	return json.RawMessage(value), nil
}

// Write replaces the node at path, dropping all its descendants
func (s *redisStore) Write(ctx context.Context, path string, fields map[string]any) error {
	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}

	descendants, err := s.descendants(ctx, path)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.nodeKey(path))
		for _, d := range descendants {
			pipe.Del(ctx, s.nodeKey(d), s.logKey(d))
		}
		if len(encoded) > 0 {
			pipe.HSet(ctx, s.nodeKey(path), encoded)
		}
		return nil
	})
	if err != nil {
		return unavailable(err)
	}

	return s.publish(ctx, path, descendants)
}

// Update merges fields into the node at path atomically
func (s *redisStore) Update(ctx context.Context, path string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}

	if err := s.client.HSet(ctx, s.nodeKey(path), encoded).Err(); err != nil {
		return unavailable(err)
	}

	return s.publish(ctx, path, nil)
}

// Remove deletes the node at path, its log and all descendants
func (s *redisStore) Remove(ctx context.Context, path string) error {
	descendants, err := s.descendants(ctx, path)
	if err != nil {
		return err
	}

	keys := []string{s.nodeKey(path), s.logKey(path)}
	for _, d := range descendants {
		keys = append(keys, s.nodeKey(d), s.logKey(d))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return unavailable(err)
	}

	return s.publish(ctx, path, descendants)
}

// Append adds value to the log at path and returns its generated key
func (s *redisStore) Append(ctx context.Context, path string, value any) (string, error) {
	data, err := encodeValue(value)
	if err != nil {
		return "", fmt.Errorf("failed to encode log value: %w", err)
	}

	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.logKey(path),
		ID:     "*",
		Values: map[string]any{logValueField: string(data)},
	}).Result()
	if err != nil {
		return "", unavailable(err)
	}

	if err := s.publish(ctx, path, nil); err != nil {
		return "", err
	}
	return id, nil
}

// Entries returns the log at path in append order
func (s *redisStore) Entries(ctx context.Context, path string) ([]Entry, error) {
	messages, err := s.client.XRange(ctx, s.logKey(path), "-", "+").Result()
	if err != nil {
		return nil, unavailable(err)
	}

	entries := make([]Entry, 0, len(messages))
	for _, msg := range messages {
		entries = append(entries, toEntry(msg))
	}
	return entries, nil
}

// Subscribe delivers a fresh read of path on subscribe and on every change
func (s *redisStore) Subscribe(ctx context.Context, path string, fn func(Fields)) (Subscription, error) {
	pubsub := s.client.Subscribe(ctx, s.channel(path))

	// Wait for the subscription to be confirmed so no change is missed
	// between the initial read and the first notification
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, unavailable(err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &redisSubscription{cancel: cancel, pubsub: pubsub}

	go func() {
		messages := pubsub.Channel()
		s.deliver(subCtx, path, fn)
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				// Collapse a burst of notifications into one fresh read
				drain(messages)
				s.deliver(subCtx, path, fn)
			}
		}
	}()

	return sub, nil
}

func drain(messages <-chan *redis.Message) {
	for {
		select {
		case _, ok := <-messages:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (s *redisStore) deliver(ctx context.Context, path string, fn func(Fields)) {
	if ctx.Err() != nil {
		return
	}
	fields, err := s.Read(ctx, path)
	if err != nil {
		if !errors.Is(err, ErrAbsent) {
			s.logger.WithError(err).WithField("path", path).Warn("Failed to read node for subscriber")
			return
		}
		fields = Fields{}
	}
	fn(fields)
}

// SubscribeAppends replays the log at path and then follows it
func (s *redisStore) SubscribeAppends(ctx context.Context, path string, fn func(Entry)) (Subscription, error) {
	// Fail fast if Redis is unreachable
	if err := s.client.Ping(ctx).Err(); err != nil {
		return nil, unavailable(err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &redisSubscription{cancel: cancel}

	go func() {
		lastID := "0"
		key := s.logKey(path)
		for subCtx.Err() == nil {
			streams, err := s.client.XRead(subCtx, &redis.XReadArgs{
				Streams: []string{key, lastID},
				Block:   s.block,
			}).Result()
			if err != nil {
				if err == redis.Nil {
					continue
				}
				if subCtx.Err() != nil {
					return
				}
				s.logger.WithError(err).WithField("path", path).Warn("Failed to read log for subscriber")
				select {
				case <-subCtx.Done():
					return
				case <-time.After(retryDelay):
				}
				continue
			}

			for _, stream := range streams {
				for _, msg := range stream.Messages {
					if subCtx.Err() != nil {
						return
					}
					lastID = msg.ID
					fn(toEntry(msg))
				}
			}
		}
	}()

	return sub, nil
}

func toEntry(msg redis.XMessage) Entry {
	value, _ := msg.Values[logValueField].(string)
	return Entry{
		Key:   msg.ID,
		Value: json.RawMessage(value),
	}
}

// descendants lists the paths of every node or log below path
func (s *redisStore) descendants(ctx context.Context, path string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, base := range []string{s.namespace + nodeKeyPrefix, s.namespace + logKeyPrefix} {
		iter := s.client.Scan(ctx, 0, base+path+"/*", 100).Iterator()
		for iter.Next(ctx) {
			p := strings.TrimPrefix(iter.Val(), base)
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				paths = append(paths, p)
			}
		}
		if err := iter.Err(); err != nil {
			return nil, unavailable(err)
		}
	}
	return paths, nil
}

// publish announces a mutation of path to its own subscribers, to the
// subscribers of every ancestor and to those of the affected descendants
func (s *redisStore) publish(ctx context.Context, path string, descendants []string) error {
	pipe := s.client.Pipeline()
	for _, p := range ancestors(path) {
		pipe.Publish(ctx, s.channel(p), path)
	}
	for _, d := range descendants {
		pipe.Publish(ctx, s.channel(d), path)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

type redisSubscription struct {
	once   sync.Once
	cancel context.CancelFunc
	pubsub *redis.PubSub
	err    error
}

// Close stops delivery
func (r *redisSubscription) Close() error {
	r.once.Do(func() {
		r.cancel()
		if r.pubsub != nil {
			r.err = r.pubsub.Close()
		}
	})
	return r.err
}
