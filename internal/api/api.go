package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/dancechain/internal/metrics"
	"github.com/tcfw/dancechain/internal/utils/logging"
	"github.com/tcfw/dancechain/pkg/block"
)

const (
	maxBodySize     = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// BlockStore is the gate the API publishes into
type BlockStore interface {
	Put(*block.Block) error
	All() []block.Block
	Len() int
}

type Option func(*Server) error

func WithLogger(l *logrus.Entry) Option {
	return func(s *Server) error {
		s.logger = l
		return nil
	}
}

// WithRegistry registers the store metrics on reg and serves them on /metrics
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) error {
		s.registry = reg
		return nil
	}
}

func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) error {
		s.allowedOrigins = origins
		return nil
	}
}

type Server struct {
	store  BlockStore
	router *mux.Router
	srv    *http.Server

	logger         *logrus.Entry
	registry       *prometheus.Registry
	metrics        *metrics.Store
	allowedOrigins []string
}

func NewServer(store BlockStore, opts ...Option) (*Server, error) {
	s := &Server{
		store:  store,
		router: mux.NewRouter(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, errors.Wrap(err, "applying option")
		}
	}

	if s.logger == nil {
		s.logger = logging.Component("api")
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = metrics.NewStore(s.registry)
	s.metrics.Blocks.Set(float64(store.Len()))

	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.router.Use(s.recovery, s.requestLog)

	s.router.HandleFunc("/blocks", s.blocks).Methods(http.MethodGet)
	s.router.HandleFunc("/postblock", s.postBlock).Methods(http.MethodPost)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.router.NotFoundHandler = s.requestLog(http.NotFoundHandler())
	s.router.MethodNotAllowedHandler = s.requestLog(http.NotFoundHandler())
}

func (s *Server) Handler() http.Handler {
	if len(s.allowedOrigins) == 0 {
		return s.router
	}

	return cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	}).Handler(s.router)
}

func (s *Server) ListenAndServe(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.WithField("addr", lis.Addr().String()).Info("Now listening")

	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	_ = s.srv.Close()

	return err
}
