package web

import (
	"log"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/EgorLis/mdshare/internal/docs"
	"github.com/EgorLis/mdshare/internal/transport/web/mw"
	authv1 "github.com/EgorLis/mdshare/internal/transport/web/v1/auth"
	"github.com/EgorLis/mdshare/internal/transport/web/v1/doc"
	"github.com/EgorLis/mdshare/internal/transport/web/v1/health"
)

type routerDeps struct {
	health      *health.Handler
	register    *authv1.HandlerRegister
	login       *authv1.HandlerLogin
	logout      *authv1.HandlerLogout
	docs        *doc.Handler
	auth        mw.AuthDeps
	maxUploadMB int64
	log         *log.Logger
}

func newRouter(d routerDeps) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /api/healthz", d.health.Liveness)
	mux.HandleFunc("GET /api/readyz", d.health.Readiness)

	// auth
	mux.HandleFunc("POST /api/register", d.register.Register)
	mux.HandleFunc("POST /api/auth", d.login.Login)
	mux.HandleFunc("DELETE /api/auth/{token}", d.logout.Logout)

	// documents: writes need a user, reads resolve one when present so
	// public documents stay reachable via plain links
	maxBody := d.maxUploadMB << 20
	mux.Handle("POST /api/docs", mw.RequireAuth(d.auth, limitBody(maxBody, d.docs.Create)))
	mux.Handle("GET /api/docs", mw.OptionalAuth(d.auth, http.HandlerFunc(d.docs.List)))
	mux.Handle("GET /api/docs/{id}", mw.OptionalAuth(d.auth, http.HandlerFunc(d.docs.GetOne)))
	mux.Handle("GET /api/docs/{id}/html", mw.OptionalAuth(d.auth, http.HandlerFunc(d.docs.GetHTML)))
	mux.Handle("PATCH /api/docs/{id}", mw.RequireAuth(d.auth, limitBody(maxBody, d.docs.Update)))
	mux.Handle("DELETE /api/docs/{id}", mw.RequireAuth(d.auth, http.HandlerFunc(d.docs.Delete)))

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return mw.WithRequestID(mw.Logging(d.log)(mux))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
