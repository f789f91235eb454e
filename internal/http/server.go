// Package http exposes the transaction, withdrawal, folder and history
// operations as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

type Server struct {
	http.Server

	transactions *services.TransactionService
	withdrawals  *services.WithdrawalService
	folders      *services.FolderService
	history      *services.HistoryService

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, tx *services.TransactionService, wd *services.WithdrawalService, fo *services.FolderService, hi *services.HistoryService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		transactions: tx,
		withdrawals:  wd,
		folders:      fo,
		history:      hi,
		limiter:      ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.Handle("/api/transactions", s.wrap(s.handleTransactions))
	mux.Handle("/api/transactions/", s.wrap(s.handleTransactionByID))
	mux.Handle("/api/transactions/withdraw", s.wrap(s.handleWithdraw))
	mux.Handle("/api/transactions/history", s.wrap(s.handleGlobalHistory))
	mux.Handle("/api/transactions/history/", s.wrap(s.handleFolderHistory))
	mux.Handle("/api/folders", s.wrap(s.handleFolders))
	mux.Handle("/api/folders/", s.wrap(s.handleFolderByID))

	return s
}

// wrap applies tracing, security headers and rate limiting. Rate limiting is
// keyed by the caller's user id when present so one user cannot starve
// another behind the same proxy.
func (s *Server) wrap(h http.HandlerFunc) http.Handler {
	var handler http.Handler = h
	handler = s.limiter.Middleware(clientKey)(handler)
	handler = security.Middleware(security.DefaultHeadersConfig())(handler)
	handler = trace.Middleware(clientIP)(handler)
	return handler
}

func clientKey(r *http.Request) string {
	if owner := r.Header.Get(ownerHeader); owner != "" {
		return owner
	}
	return clientIP(r)
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the rate limiter cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
