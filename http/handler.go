package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	bboyzero "github.com/bboyyzero/bboyzero-net-site"
)

// DefaultMaxBodyBytes caps inbound JSON bodies. The cap bounds memory
// use for base64-encoded image payloads.
const DefaultMaxBodyBytes = 15_000_000

// Service is the gateway business logic consumed by the HTTP layer.
type Service interface {
	ListEvents(ctx context.Context) ([]bboyzero.Event, error)
	CreateEvent(ctx context.Context, in bboyzero.CreateEventInput) (bboyzero.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	SubmitContact(ctx context.Context, in bboyzero.ContactInput) error
}

// StaticResolver serves every path outside /api.
type StaticResolver interface {
	Resolve(path string) (io.ReadCloser, string, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	// AdminToken is the shared secret for privileged operations.
	AdminToken string
	// StoreConfigured gates every /api route; when false each one
	// returns the fixed missing-configuration error.
	StoreConfigured bool
	// MaxBodyBytes caps inbound JSON bodies. Zero means
	// DefaultMaxBodyBytes.
	MaxBodyBytes int64
	CORS         CORSConfig
}

// Handler provides the gateway's HTTP handlers.
type Handler struct {
	config  HandlerConfig
	service Service
	static  StaticResolver
}

// NewHandler creates a Handler with the given configuration,
// service, and static resolver.
func NewHandler(config *HandlerConfig, service Service, static StaticResolver) *Handler {
	cfg := *config
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		config:  cfg,
		service: service,
		static:  static,
	}
}

// Router returns the gateway's http.Handler. The /api subtree is gated
// on store configuration before any routing logic; everything else
// falls through to the static resolver.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireStoreConfig(h.config.StoreConfigured))

		r.Get("/events", h.handleListEvents)
		r.Post("/contact", h.handleContact)

		r.Group(func(r chi.Router) {
			r.Use(AdminOnly(h.config.AdminToken))
			r.Post("/events", h.handleCreateEvent)
			r.Delete("/events/{id}", h.handleDeleteEvent)
		})

		// fail closed: unknown /api paths or methods are 404, never static
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			WriteError(w, http.StatusNotFound, "Not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
			WriteError(w, http.StatusNotFound, "Not found")
		})
	})

	r.NotFound(h.handleStatic)

	return r
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		HandleError(w, err, "Failed to load events")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var in bboyzero.CreateEventInput
	if err := h.decodeJSON(w, r, &in); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	event, err := h.service.CreateEvent(r.Context(), in)
	if err != nil {
		HandleError(w, err, "Failed to save event")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"event": event})
}

func (h *Handler) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	// the id is taken verbatim from the path, URL-decoded
	id := chi.URLParam(r, "id")
	if decoded, err := url.PathUnescape(id); err == nil {
		id = decoded
	}

	if err := h.service.DeleteEvent(r.Context(), id); err != nil {
		HandleError(w, err, "Failed to delete event")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var in bboyzero.ContactInput
	if err := h.decodeJSON(w, r, &in); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if err := h.service.SubmitContact(r.Context(), in); err != nil {
		HandleError(w, err, "Failed to save message")
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

func (h *Handler) handleStatic(w http.ResponseWriter, r *http.Request) {
	f, contentType, err := h.static.Resolve(r.URL.Path)
	if err != nil {
		if errors.Is(err, bboyzero.ErrForbidden) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, f); err != nil {
		slog.Warn("static stream interrupted", "path", r.URL.Path, "err", err)
	}
}

// decodeJSON decodes a capped request body. An empty body decodes to
// the zero value, matching the gateway's treat-empty-as-empty-object
// behavior; field validation then produces the 400.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
