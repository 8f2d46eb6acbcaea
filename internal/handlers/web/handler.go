package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/KirkDiggler/teamtrivia/internal/models"
	"github.com/KirkDiggler/teamtrivia/internal/services/directory"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// Config holds the configuration for the plain HTTP routes
type Config struct {
	Directory directory.Service

	// Version is reported by the version route
	Version string

	// PublicURL is the base of join links. When empty the request's scheme
	// and host are used.
	PublicURL string

	Logger logrus.FieldLogger
}

// Handler serves health, version and room share routes
type Handler struct {
	directory directory.Service
	version   string
	publicURL string
	logger    logrus.FieldLogger
}

// New creates a new web handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Directory == nil {
		return nil, errors.New("directory service cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Handler{
		directory: cfg.Directory,
		version:   cfg.Version,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		logger:    logger.WithField("handler", "web"),
	}, nil
}

// Register adds the routes under prefix
func (h *Handler) Register(mux *httprouter.Router, prefix string) {
	mux.GET(prefix+"/healthz", h.ServeHealthCheck)
	mux.GET(prefix+"/version", h.ServeVersion)
	mux.GET(prefix+"/rooms/:code/qr.png", h.ServeRoomQR)
}

func (h *Handler) ServeHealthCheck(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Ok\n"))
}

func (h *Handler) ServeVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("teamtrivia v" + h.version + "\n"))
}

// ServeRoomQR renders a PNG QR code of the room's join link
func (h *Handler) ServeRoomQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	output, err := h.directory.ResolveRoom(r.Context(), &directory.ResolveRoomInput{
		Code: ps.ByName("code"),
	})
	if err != nil {
		if errors.Is(err, models.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		h.logger.WithError(err).Error("Failed to resolve room for QR code")
		http.Error(w, "room lookup failed", http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(h.joinURL(r, output.Room.Code), qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (h *Handler) joinURL(r *http.Request, code string) string {
	base := h.publicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}

	return base + "/?room=" + url.QueryEscape(code)
}
