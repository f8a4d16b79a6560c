package main

import (
	"context"
	"net/http"
	"time"

	"deepedu/internal/auth"
	"deepedu/internal/catalog"
	"deepedu/internal/config"
	"deepedu/internal/docstore"
	"deepedu/internal/ebook"
	"deepedu/internal/httpx"
	"deepedu/internal/session"
	"deepedu/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires every service onto one chi router. ctx bounds the
// background work of the rate limiters.
func newRouter(ctx context.Context, cfg *config.Config, store docstore.Store, pool *pgxpool.Pool, repos auth.Repositories) (http.Handler, error) {
	ebookRepo := ebook.NewDocumentRepository(store)
	ebookSvc := ebook.NewService(ebookRepo)
	catalogSvc := catalog.NewService(ebookRepo)

	provider := auth.NewLocalProvider(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, repos.Users, repos.Revocations)
	guard := session.NewGuard(provider, cfg.Auth.CookieName, web.LoginPath, cfg.Auth.ResolveTimeout)

	pages, err := web.NewHandler(catalogSvc, ebookSvc, provider, guard, cfg.Auth, cfg.Site)
	if err != nil {
		return nil, err
	}
	ebookHandler := ebook.NewHTTPHandler(ebookSvc)
	catalogHandler := catalog.NewHTTPHandler(catalogSvc)
	authHandler := auth.NewHTTPHandler(provider)

	globalLimiter := httpx.NewRateLimitMiddleware(ctx, "global", cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)
	loginLimiter := httpx.NewRateLimitMiddleware(ctx, "login", cfg.Auth.LoginRPS, cfg.Auth.LoginBurst)
	webLoginLimiter := httpx.NewRateLimitMiddleware(ctx, "web_login", cfg.Auth.LoginRPS, cfg.Auth.LoginBurst).
		WithRejectHandler(pages.LoginRejected)
	requireAdmin := httpx.AuthMiddleware(provider.Bearer, auth.RoleAdmin)

	r := chi.NewRouter()
	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.RecoveryMiddleware)
	r.Use(httpx.AccessLogMiddleware)
	r.Use(httpx.MetricsMiddleware)
	r.Use(httpx.SecurityHeadersMiddleware(cfg.Server.EnableHSTS))
	r.Use(httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(globalLimiter.Middleware)

		r.Get("/", pages.Landing)
		r.Get("/library", pages.Library)
		r.Get("/library/genre/{genre}", pages.Genre)
		r.Get("/library/book/{id}", pages.Book)

		r.Get(web.LoginPath, pages.LoginPage)
		r.With(webLoginLimiter.Middleware).Post(web.LoginPath, pages.Login)

		r.Group(func(r chi.Router) {
			r.Use(guard.Middleware)
			r.Post("/admin/logout", pages.Logout)
			r.Get(web.DashboardPath, pages.Dashboard)
			r.Post("/admin/ebooks", pages.Upload)
			r.Post("/admin/ebooks/{id}/delete", pages.Delete)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httpx.CORSMiddleware(cfg.Server.CORSOrigins))
		r.Use(globalLimiter.Middleware)

		r.Get("/ebooks", ebookHandler.List)
		r.Get("/ebooks/{id}", catalogHandler.Detail)
		r.Get("/library", catalogHandler.Library)
		r.Get("/library/genre/{genre}", catalogHandler.Genre)

		r.With(loginLimiter.Middleware).Post("/auth/login", authHandler.Login)
		r.With(requireAdmin).Post("/auth/logout", authHandler.Logout)

		r.With(requireAdmin).Post("/ebooks", ebookHandler.Create)
		r.With(requireAdmin).Delete("/ebooks/{id}", ebookHandler.Delete)
	})

	return r, nil
}
