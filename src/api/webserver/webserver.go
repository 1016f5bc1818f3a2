package webserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stake-plus/memberhub/src/api/apperr"
	"github.com/stake-plus/memberhub/src/api/config"
	"github.com/stake-plus/memberhub/src/api/data"
	"github.com/stake-plus/memberhub/src/api/schema"
	"github.com/stake-plus/memberhub/src/api/store"
	"github.com/stake-plus/memberhub/src/api/types"
)

// ChangeNotifier receives an event after every successful write.
type ChangeNotifier interface {
	Publish(ctx context.Context, ch data.Change) error
}

// NoticeBroadcaster pushes urgent notices to an outside channel.
type NoticeBroadcaster interface {
	Broadcast(ctx context.Context, n types.Notice) error
}

// Deps are the optional collaborators; nil fields disable the feature.
type Deps struct {
	Logger      *slog.Logger
	Changes     ChangeNotifier
	Broadcaster NoticeBroadcaster
	Registry    *prometheus.Registry
}

// Server holds the handlers' shared state and serves HTTP through its gin
// engine.
type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	store       *store.Store
	log         *slog.Logger
	changes     ChangeNotifier
	broadcaster NoticeBroadcaster
	registry    *prometheus.Registry
	sanitizer   *sanitizer

	// background tracks in-flight notice broadcasts.
	background sync.WaitGroup
}

func New(cfg config.Config, st *store.Store, deps Deps) *Server {
	binding.Validator = schema.Validator{}

	s := &Server{
		cfg:         cfg,
		store:       st,
		log:         deps.Logger,
		changes:     deps.Changes,
		broadcaster: deps.Broadcaster,
		registry:    deps.Registry,
		sanitizer:   newSanitizer(),
	}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	g := gin.New()
	g.Use(requestLogger(s.log), gin.Recovery(), newMetrics(s.registry).middleware())
	attachRoutes(g, s)
	s.engine = g
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// Drain waits for in-flight broadcasts until ctx is done.
func (s *Server) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.background.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.log.Warn("gave up waiting for broadcasts", slog.String("error", ctx.Err().Error()))
		return ctx.Err()
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(status, gin.H{"err": "validation failed", "fields": verr.Fields})
	case status >= http.StatusInternalServerError:
		s.log.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.String("error", err.Error()))
		c.AbortWithStatusJSON(status, gin.H{"err": http.StatusText(status)})
	default:
		c.AbortWithStatusJSON(status, gin.H{"err": err.Error()})
	}
}

// respond writes v as JSON with a weak ETag, answering 304 when the client
// already holds the same representation.
func (s *Server) respond(c *gin.Context, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.fail(c, fmt.Errorf("encode response: %w", err))
		return
	}
	tag := fmt.Sprintf(`W/"%016x"`, xxhash.Checksum64(body))
	c.Header("ETag", tag)
	if status == http.StatusOK && etagMatch(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func etagMatch(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}

// publish is best effort: the write already succeeded.
func (s *Server) publish(c *gin.Context, entity string, op data.Op, id string) {
	if s.changes == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 2*time.Second)
	defer cancel()
	err := s.changes.Publish(ctx, data.Change{Entity: entity, Op: op, ID: id, At: time.Now().UTC()})
	if err != nil {
		s.log.Warn("publish change failed",
			slog.String("entity", entity),
			slog.String("op", string(op)),
			slog.String("id", id),
			slog.String("error", err.Error()))
	}
}

func (s *Server) broadcast(n types.Notice) {
	if s.broadcaster == nil {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.broadcaster.Broadcast(ctx, n); err != nil {
			s.log.Warn("broadcast notice failed", slog.String("id", n.ID), slog.String("error", err.Error()))
			return
		}
		s.log.Info("broadcast urgent notice", slog.String("id", n.ID))
	}()
}
