// Package web serves the car listing as server-rendered HTML.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/WessleyAI/encarview/engine/card"
	"github.com/WessleyAI/encarview/engine/catalog"
	"github.com/WessleyAI/encarview/engine/filters"
	"github.com/WessleyAI/encarview/engine/listing"
	"github.com/WessleyAI/encarview/pkg/metrics"
	"github.com/WessleyAI/encarview/pkg/mid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// Catalog is the API surface the web front end needs.
type Catalog interface {
	listing.Lister
	GetCar(ctx context.Context, id int) (catalog.CarDetail, error)
	filters.OptionsSource
}

// Config tunes the web front end.
type Config struct {
	PageSize    int
	OptionsTTL  time.Duration
	RateLimit   float64
	RateBurst   int
	ServiceName string
}

// Server renders the listing and detail pages.
type Server struct {
	api     Catalog
	cfg     Config
	vocab   *filters.Vocabulary
	cards   card.Formatter
	pages   *pages
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New creates a Server. m may be nil to disable /metrics.
func New(api Catalog, cfg Config, m *metrics.Metrics, logger *slog.Logger) (*Server, error) {
	if api == nil {
		return nil, errors.New("web: nil catalog")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = listing.DefaultPageSize
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "encarview"
	}
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	log := logger.With("component", "web")
	return &Server{
		api:     api,
		cfg:     cfg,
		vocab:   filters.NewVocabulary(api, cfg.OptionsTTL, logger),
		cards:   card.Default,
		pages:   p,
		metrics: m,
		log:     log,
	}, nil
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	var limiter *rate.Limiter
	if s.cfg.RateLimit > 0 {
		burst := s.cfg.RateBurst
		if burst <= 0 {
			burst = int(s.cfg.RateLimit) + 1
		}
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RateLimit), burst)
	}

	r := chi.NewRouter()
	r.Use(
		mid.RequestID(),
		mid.Recover(s.log),
		mid.Logger(s.log),
	)
	if s.metrics != nil {
		r.Use(mid.Instrument(s.metrics))
	}
	r.Use(mid.Throttle(limiter))

	r.Get("/", s.handleListing)
	r.Get("/cars/page", s.handlePage)
	r.Get("/cars/{id}", s.handleDetail)
	r.Get(card.Placeholder, handlePlaceholder)
	r.Get("/healthz", handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	r.NotFound(s.handleNotFound)

	// Spans wrap the whole router; the chi stack above runs inside them.
	return mid.Chain(r, mid.OTel(s.cfg.ServiceName), middleware.RealIP)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func handlePlaceholder(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(placeholderSVG)
}
