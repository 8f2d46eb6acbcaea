package ws

import (
	"context"
	"net/http"
	"sync"

	"github.com/KirkDiggler/teamtrivia/internal/services/game"
	"github.com/KirkDiggler/teamtrivia/internal/services/messaging"
	"github.com/KirkDiggler/teamtrivia/internal/services/participant"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	sendBuffer     = 32
	maxMessageSize = 4096
	defaultBurst   = 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler serves participant connections over websockets
type Handler struct {
	gameService  game.Service
	participants participant.Service
	messaging    messaging.Service
	limit        rate.Limit
	burst        int
	tone         messaging.MessageTone
	logger       logrus.FieldLogger

	// ctx bounds every connection and hosted arbiter; stop cancels it
	ctx      context.Context
	stop     context.CancelFunc
	mu       sync.Mutex
	rooms    map[string]*room
	arbiters sync.WaitGroup
}

// New creates a new websocket handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}

	if cfg.Participants == nil {
		return nil, ErrNilParticipantService
	}

	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}

	limit := cfg.Limit
	if limit == 0 {
		limit = rate.Limit(defaultBurst)
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	ctx, stop := context.WithCancel(context.Background())

	return &Handler{
		gameService:  cfg.GameService,
		participants: cfg.Participants,
		messaging:    cfg.Messaging,
		limit:        limit,
		burst:        burst,
		tone:         cfg.Tone,
		logger:       logger.WithField("handler", "ws"),
		ctx:          ctx,
		stop:         stop,
		rooms:        make(map[string]*room),
	}, nil
}

// ServeWS upgrades the request and serves one connection until it closes.
// A connection joins at most one room; its participant driver runs for as
// long as the connection stays open. The room's arbiter driver is hosted
// by the handler and outlives any single connection.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(h.ctx)
	c := &client{
		Handler: h,
		conn:    conn,
		send:    make(chan *Outbound, sendBuffer),
		limiter: rate.NewLimiter(h.limit, h.burst),
		ctx:     ctx,
		cancel:  cancel,
		logger:  h.logger.WithField("remote", r.RemoteAddr),
	}

	go c.writePump()
	c.readPump()

	c.cancel()
	c.driver.Wait()
	if c.joined() {
		h.unregister(c)
	}
	close(c.send)
}
