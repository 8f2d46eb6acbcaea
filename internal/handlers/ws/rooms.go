package ws

import (
	"context"
	"time"

	"github.com/KirkDiggler/teamtrivia/internal/services/participant"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const arbiterRetry = time.Second

// room holds the live connections of one room and the arbiter driver
// hosted for it while any of them is open
type room struct {
	clients map[string]*client

	// stop cancels the running arbiter; nil once the room emptied
	stop context.CancelFunc

	// done is closed when the last started arbiter has returned
	done chan struct{}
}

// register makes c the live connection of its participant. A connection
// already open for the same participant is closed, so a participant drives
// from one connection at a time.
func (h *Handler) register(c *client) {
	h.mu.Lock()
	r := h.rooms[c.code]
	if r == nil {
		r = &room{clients: make(map[string]*client)}
		h.rooms[c.code] = r
	}
	replaced := r.clients[c.participantID]
	r.clients[c.participantID] = c
	if r.stop == nil {
		h.startArbiter(c.code, r)
	}
	h.mu.Unlock()

	if replaced != nil && replaced != c {
		replaced.logger.Info("Connection replaced by a newer one")
		_ = replaced.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ErrReplaced.Error()),
			time.Now().Add(writeWait),
		)
		replaced.cancel()
		_ = replaced.conn.Close()
	}
}

// unregister drops c and stops the room's arbiter once nobody is connected
func (h *Handler) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r := h.rooms[c.code]
	if r == nil || r.clients[c.participantID] != c {
		return
	}
	delete(r.clients, c.participantID)

	if len(r.clients) == 0 && r.stop != nil {
		r.stop()
		r.stop = nil
	}
}

// startArbiter runs the room's arbiter driver. A previous arbiter for the
// room is waited out first, so at most one runs per room. Must be called
// with h.mu held.
func (h *Handler) startArbiter(code string, r *room) {
	ctx, cancel := context.WithCancel(h.ctx)
	prev := r.done
	done := make(chan struct{})
	r.stop, r.done = cancel, done

	logger := h.logger.WithField("room", code)

	h.arbiters.Add(1)
	go func() {
		defer h.arbiters.Done()
		defer h.forget(code, r, done)
		defer close(done)

		if prev != nil {
			<-prev
		}
		h.arbitrate(ctx, code, logger)
	}()
}

// arbitrate keeps the arbiter driver running until ctx is cancelled
func (h *Handler) arbitrate(ctx context.Context, code string, logger logrus.FieldLogger) {
	for {
		err := h.participants.Arbitrate(ctx, &participant.ArbitrateInput{Code: code})
		if ctx.Err() != nil {
			return
		}
		logger.WithError(err).Warn("Arbiter driver stopped, restarting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(arbiterRetry):
		}
	}
}

// forget removes an emptied room once its last arbiter has returned
func (h *Handler) forget(code string, r *room, done chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[code] == r && r.done == done && r.stop == nil && len(r.clients) == 0 {
		delete(h.rooms, code)
	}
}

// Close stops every hosted arbiter and waits for them to return
func (h *Handler) Close() {
	h.stop()
	h.arbiters.Wait()
}
