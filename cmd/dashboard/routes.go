package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wallet/internal/domain/portfolio"
	httphandlers "wallet/internal/interfaces/http"
	"wallet/internal/shared/config"
	"wallet/internal/shared/middleware"
	"wallet/internal/web"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	pages := http.NewServeMux()
	pages.HandleFunc("/", deps.PageHandler.HandleHome)
	pages.HandleFunc("/acoes", deps.PageHandler.HandleAssets(portfolio.Stocks))
	pages.HandleFunc("/fiis", deps.PageHandler.HandleAssets(portfolio.RealEstate))
	pages.HandleFunc("/small-caps", deps.PageHandler.HandleAssets(portfolio.SmallCaps))
	pages.HandleFunc("/lancamentos", deps.PageHandler.HandleTransactions)
	pages.HandleFunc("/proventos", deps.PageHandler.HandleDividends)
	pages.HandleFunc("/simulacoes", deps.PageHandler.HandleSimulations)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/health", httphandlers.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(web.Static())))
	mux.HandleFunc("/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/logout", deps.AuthHandler.HandleLogout)

	// Dashboard pages, behind the login when a password is configured
	if cfg.Auth.Enabled() {
		mux.Handle("/", middleware.RequireSession(deps.JWT)(pages))
	} else {
		mux.Handle("/", pages)
	}

	// Apply global middleware
	handler := middleware.Telemetry(cfg.Telemetry.ServiceName)(middleware.Tracing(mux))
	handler = middleware.Logging(handler)

	if cfg.TLS.Enabled {
		handler = middleware.SecureCookies(handler)
		handler = middleware.HSTS(handler)
	}

	return handler
}
