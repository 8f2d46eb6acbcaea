package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/suite"
)

// contractSuite exercises the Store contract. Driver suites embed it and
// set store in SetupTest.
type contractSuite struct {
	suite.Suite
	store Store
	ctx   context.Context
}

type recorder[T any] struct {
	mu    sync.Mutex
	items []T
}

func (r *recorder[T]) add(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

func (r *recorder[T]) snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.items...)
}

func (s *contractSuite) eventually(condition func() bool) {
	s.Eventually(condition, 2*time.Second, 10*time.Millisecond)
}

func (s *contractSuite) TestReadAbsent() {
	_, err := s.store.Read(s.ctx, "rooms/NOPE/state")
	s.True(errors.Is(err, ErrAbsent))

	_, err = s.store.ReadField(s.ctx, "rooms/NOPE/state", "phase")
	s.True(errors.Is(err, ErrAbsent))
}

func (s *contractSuite) TestUpdateMergesFields() {
	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE/state", map[string]any{
		"phase":     "forming",
		"turnIndex": 0,
	}))
	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE/state", map[string]any{
		"turnIndex": 3,
	}))

	fields, err := s.store.Read(s.ctx, "rooms/ABCDE/state")
	s.Require().NoError(err)

	var phase string
	var turnIndex int
	s.Require().NoError(fields.Decode("phase", &phase))
	s.Require().NoError(fields.Decode("turnIndex", &turnIndex))
	s.Equal("forming", phase)
	s.Equal(3, turnIndex)

	raw, err := s.store.ReadField(s.ctx, "rooms/ABCDE/state", "turnIndex")
	s.Require().NoError(err)
	s.JSONEq("3", string(raw))
}

func (s *contractSuite) TestWriteReplacesNodeAndDropsDescendants() {
	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE", map[string]any{"a": 1, "b": 2}))
	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE/answers", map[string]any{"p1": "A"}))

	s.Require().NoError(s.store.Write(s.ctx, "rooms/ABCDE", map[string]any{"c": 3}))

	fields, err := s.store.Read(s.ctx, "rooms/ABCDE")
	s.Require().NoError(err)
	s.False(fields.Has("a"))
	s.True(fields.Has("c"))

	_, err = s.store.Read(s.ctx, "rooms/ABCDE/answers")
	s.True(errors.Is(err, ErrAbsent))
}

func (s *contractSuite) TestRemoveDropsLogAndDescendants() {
	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE/state", map[string]any{"phase": "active"}))
	_, err := s.store.Append(s.ctx, "rooms/ABCDE/events", map[string]any{"n": 1})
	s.Require().NoError(err)
	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDF/state", map[string]any{"phase": "active"}))

	s.Require().NoError(s.store.Remove(s.ctx, "rooms/ABCDE"))

	_, err = s.store.Read(s.ctx, "rooms/ABCDE/state")
	s.True(errors.Is(err, ErrAbsent))
	entries, err := s.store.Entries(s.ctx, "rooms/ABCDE/events")
	s.Require().NoError(err)
	s.Empty(entries)

	// A sibling sharing the prefix survives
	_, err = s.store.Read(s.ctx, "rooms/ABCDF/state")
	s.NoError(err)
}

func (s *contractSuite) TestAppendKeepsOrder() {
	var keys []string
	for i := 1; i <= 3; i++ {
		key, err := s.store.Append(s.ctx, "rooms/ABCDE/events", map[string]int{"n": i})
		s.Require().NoError(err)
		keys = append(keys, key)
	}

	entries, err := s.store.Entries(s.ctx, "rooms/ABCDE/events")
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	for i, entry := range entries {
		s.Equal(keys[i], entry.Key)
		var v map[string]int
		s.Require().NoError(json.Unmarshal(entry.Value, &v))
		s.Equal(i+1, v["n"])
	}
}

func (s *contractSuite) TestSubscribeDeliversCurrentValueThenChanges() {
	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE/state", map[string]any{"turnIndex": 0}))

	seen := &recorder[int]{}
	sub, err := s.store.Subscribe(s.ctx, "rooms/ABCDE/state", func(fields Fields) {
		var turnIndex int
		if err := fields.Decode("turnIndex", &turnIndex); err == nil {
			seen.add(turnIndex)
		}
	})
	s.Require().NoError(err)
	defer sub.Close()

	s.eventually(func() bool {
		items := seen.snapshot()
		return len(items) > 0 && items[0] == 0
	})

	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE/state", map[string]any{"turnIndex": 1}))

	s.eventually(func() bool {
		items := seen.snapshot()
		return items[len(items)-1] == 1
	})
}

func (s *contractSuite) TestSubscribeObservesDescendantChanges() {
	calls := &recorder[Fields]{}
	sub, err := s.store.Subscribe(s.ctx, "rooms/ABCDE", func(fields Fields) {
		calls.add(fields)
	})
	s.Require().NoError(err)
	defer sub.Close()

	s.eventually(func() bool { return len(calls.snapshot()) == 1 })
	s.Empty(calls.snapshot()[0])

	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE/answers", map[string]any{"p1": "B"}))

	s.eventually(func() bool { return len(calls.snapshot()) >= 2 })
}

func (s *contractSuite) TestSubscribeAppendsReplaysThenFollows() {
	_, err := s.store.Append(s.ctx, "rooms/ABCDE/events", map[string]int{"n": 1})
	s.Require().NoError(err)
	_, err = s.store.Append(s.ctx, "rooms/ABCDE/events", map[string]int{"n": 2})
	s.Require().NoError(err)

	seen := &recorder[int]{}
	sub, err := s.store.SubscribeAppends(s.ctx, "rooms/ABCDE/events", func(entry Entry) {
		var v map[string]int
		if err := json.Unmarshal(entry.Value, &v); err == nil {
			seen.add(v["n"])
		}
	})
	s.Require().NoError(err)
	defer sub.Close()

	s.eventually(func() bool { return len(seen.snapshot()) == 2 })

	_, err = s.store.Append(s.ctx, "rooms/ABCDE/events", map[string]int{"n": 3})
	s.Require().NoError(err)

	s.eventually(func() bool { return len(seen.snapshot()) == 3 })
	s.Equal([]int{1, 2, 3}, seen.snapshot())
}

func (s *contractSuite) TestCallbackMayWriteToStore() {
	done := make(chan struct{})
	var once sync.Once
	sub, err := s.store.Subscribe(s.ctx, "rooms/ABCDE/requests", func(fields Fields) {
		if !fields.Has("roll") {
			return
		}
		if err := s.store.Update(s.ctx, "rooms/ABCDE/state", map[string]any{"progress": "rolling"}); err == nil {
			once.Do(func() { close(done) })
		}
	})
	s.Require().NoError(err)
	defer sub.Close()

	s.Require().NoError(s.store.Update(s.ctx, "rooms/ABCDE/requests", map[string]any{"roll": "p1"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.Fail("callback write did not complete")
	}
}
