// Package api serves the active planning session as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/nestegg/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Saver persists the session after each mutation.
type Saver interface {
	SaveSession(st session.State) error
}

// Server exposes one PlanningSession over HTTP.
type Server struct {
	cfg   Config
	sess  *session.PlanningSession
	saver Saver
	log   *zap.Logger

	router *gin.Engine

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event
	nextSubID   int
	subs        map[int]chan Event
}

// Option configures a Server.
type Option func(*Server)

// WithSaver persists the session after every successful mutation.
func WithSaver(sv Saver) Option {
	return func(s *Server) { s.saver = sv }
}

// WithLogger sets the request and event logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a server for sess.
func New(cfg Config, sess *session.PlanningSession, opts ...Option) *Server {
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	s := &Server{
		cfg:       cfg,
		sess:      sess,
		log:       zap.NewNop(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.handleHealth)

	v1 := r.Group("/v1")
	{
		v1.GET("/params", s.handleGetParams)
		v1.PUT("/params", s.handlePutParams)

		v1.GET("/goals", s.handleListGoals)
		v1.POST("/goals", s.handleAddGoal)
		v1.DELETE("/goals/:name", s.handleRemoveGoal)

		v1.GET("/networth", s.handleNetWorth)
		v1.GET("/schedule", s.handleSchedule)
		v1.GET("/snapshot", s.handleSnapshot)
		v1.GET("/timeline", s.handleTimeline)

		v1.GET("/events", s.handleEvents)
		v1.GET("/stream", s.handleStream)
	}
	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info("api listening", zap.String("addr", s.cfg.Addr), zap.String("session", s.sess.ID()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("api http server: %w", err)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// persist saves the session when a saver is configured.
func (s *Server) persist() error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.SaveSession(s.sess.State()); err != nil {
		s.log.Error("persisting session", zap.Error(err))
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}
