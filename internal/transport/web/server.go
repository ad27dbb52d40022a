package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/EgorLis/mdshare/internal/config"
	"github.com/EgorLis/mdshare/internal/domain"
	"github.com/EgorLis/mdshare/internal/markdown"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
	authv1 "github.com/EgorLis/mdshare/internal/transport/web/v1/auth"
	"github.com/EgorLis/mdshare/internal/transport/web/v1/doc"
	"github.com/EgorLis/mdshare/internal/transport/web/v1/health"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, rep Repos, auth AuthDeps, bs domain.BlobStorage, cache domain.Cache) *Server {
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())
	authLog := log.New(logger.Writer(), logger.Prefix()+"[auth] ", logger.Flags())
	docLog := log.New(logger.Writer(), logger.Prefix()+"[doc] ", logger.Flags())

	healthHandler := &health.Handler{DB: rep.Users, Cache: cache, Storage: bs, Log: healthLog}
	registerHandler := &authv1.HandlerRegister{Log: authLog, Users: rep.Users, Hasher: auth.Hasher}
	loginHandler := &authv1.HandlerLogin{Log: authLog, Users: rep.Users, Hasher: auth.Hasher, Tokens: auth.Tokens}
	logoutHandler := &authv1.HandlerLogout{Log: authLog, Tokens: auth.Tokens, Blacklist: auth.Blacklist}

	docHandler := &doc.Handler{
		Log:      docLog,
		Docs:     rep.Docs,
		Storage:  bs,
		Cache:    cache,
		Renderer: markdown.NewRenderer(),
		DocTTL:   cfg.CacheDocTTL,
		ListTTL:  cfg.CacheListTTL,
	}

	mwAuth := mw.AuthDeps{Tokens: auth.Tokens, Blacklist: auth.Blacklist}

	srv := &http.Server{
		Addr: cfg.AppPort,
		Handler: newRouter(routerDeps{
			health:      healthHandler,
			register:    registerHandler,
			login:       loginHandler,
			logout:      logoutHandler,
			docs:        docHandler,
			auth:        mwAuth,
			maxUploadMB: cfg.MaxUploadMB,
			log:         logger,
		}),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
