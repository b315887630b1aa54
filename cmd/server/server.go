package main

import (
	"time"

	"github.com/JaimeStill/dossier/internal/config"
	"github.com/JaimeStill/dossier/internal/infrastructure"
	"github.com/JaimeStill/dossier/pkg/module"
	"github.com/JaimeStill/dossier/pkg/queue"
)

type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	router  *module.Router
	http    *httpServer
	workers *queue.Pool
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}
	return newServer(cfg, infra), nil
}

func newServer(cfg *config.Config, infra *infrastructure.Infrastructure) *Server {
	modules := NewModules(infra, cfg)

	router := buildRouter(infra)
	modules.Mount(router)

	s := &Server{
		infra:   infra,
		modules: modules,
		router:  router,
		http:    newHTTPServer(cfg, router, infra.Logger),
	}

	if cfg.Queue.WorkersInline {
		s.workers = queue.NewPool(infra.Queue, modules.Domain.Jobs(), &cfg.Queue.Config, infra.Logger)
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"inline_workers", cfg.Queue.WorkersInline,
	)

	return s
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")

		s.startWorkers()
	}()

	return nil
}

// startWorkers returns jobs orphaned by a previous process to pending and
// then runs the inline pool. Recovery assumes this is the only consumer.
func (s *Server) startWorkers() {
	if s.workers == nil {
		return
	}

	n, err := s.infra.Queue.Recover(s.infra.Lifecycle.Context())
	if err != nil {
		s.infra.Logger.Error("queue recovery failed", "error", err)
	} else if n > 0 {
		s.infra.Logger.Info("recovered unacknowledged jobs", "count", n)
	}

	s.workers.Start(s.infra.Lifecycle)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
