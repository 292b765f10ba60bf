package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Taichi-iskw/yt-vault/internal/model"
	"github.com/Taichi-iskw/yt-vault/internal/notifier"
	"github.com/Taichi-iskw/yt-vault/internal/repository"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Orchestrator is the part of the job orchestrator the HTTP layer needs
type Orchestrator interface {
	HandleParseRequest(ctx context.Context, req model.ParseRequest) (*model.ParseResult, error)
	Jobs() []model.DownloadJob
}

// Hub registers live-status subscribers
type Hub interface {
	Connect(sub notifier.Subscriber)
	Disconnect(sub notifier.Subscriber)
}

// Options configures file locations served by the Server
type Options struct {
	DownloadDir string
	StaticDir   string
}

// Server exposes the orchestrator, the video store and the live-status hub over HTTP
type Server struct {
	engine    *gin.Engine
	orch      Orchestrator
	videoRepo repository.VideoRepository
	hub       Hub
	log       logrus.FieldLogger
	opts      Options
	upgrader  websocket.Upgrader

	// open websocket subscribers, closed on shutdown
	sockets sync.Map
}

// New creates a Server with all routes registered
func New(orch Orchestrator, videoRepo repository.VideoRepository, hub Hub, opts Options, log logrus.FieldLogger) *Server {
	s := &Server{
		engine:    gin.New(),
		orch:      orch,
		videoRepo: videoRepo,
		hub:       hub,
		log:       log,
		opts:      opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.engine.Use(gin.Recovery(), requestLogger(log))
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.engine

	r.GET("/", s.indexHandler)
	r.Static("/static", s.opts.StaticDir)

	r.POST("/parse-channel", s.parseChannelHandler)
	r.GET("/videos", s.listVideosHandler)
	r.GET("/video/:video_id", s.videoFileHandler)
	r.GET("/thumbnail/:video_id", s.thumbnailFileHandler)
	r.GET("/jobs", s.listJobsHandler)
	r.GET("/health", s.healthHandler)

	// WebSocket for live status text
	r.GET("/ws", s.websocketHandler)
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	// hijacked websocket connections are not closed by Shutdown
	srv.RegisterOnShutdown(s.closeSockets)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Infof("listening on http://%s", addr)

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) closeSockets() {
	s.sockets.Range(func(key, value any) bool {
		_ = value.(*wsSubscriber).Close()
		return true
	})
}
