// Package http exposes the budget stores as a JSON API. Each authenticated
// user gets a lazily initialized session holding their board and bill
// stores; all request scoping flows through the identity provider.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"kassa/internal/advisor"
	"kassa/internal/amqp"
	"kassa/internal/backend"
	"kassa/internal/identity"
	"kassa/internal/middleware/ratelimit"
	"kassa/internal/middleware/security"
	"kassa/internal/middleware/trace"
	"kassa/internal/store"
)

// TransactionPublisher mirrors newly created transactions to the export
// pipeline. Publishing is best-effort; a nil publisher disables it.
type TransactionPublisher interface {
	PublishTransactionCreated(ctx context.Context, msg *amqp.TransactionCreatedMessage) error
}

// Options configures the optional collaborators of the server.
type Options struct {
	Identity  identity.Provider
	Advisor   advisor.Advisor
	Publisher TransactionPublisher
	RateLimit ratelimit.Config
}

// session bundles one user's stores. Stores are initialized exactly once,
// on the first request carrying that identity.
type session struct {
	once    sync.Once
	initErr error

	boards *store.BoardStore
	bills  *store.BillStore
}

type Server struct {
	http.Server

	persist   backend.Persistence
	identity  identity.Provider
	advisor   advisor.Advisor
	publisher TransactionPublisher

	limiter *ratelimit.Limiter

	mu       sync.Mutex
	sessions map[string]*session

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, persist backend.Persistence, opts Options) *Server {
	mux := http.NewServeMux()

	ident := opts.Identity
	if ident == nil {
		ident = identity.HeaderProvider{}
	}

	s := &Server{
		persist:   persist,
		identity:  ident,
		advisor:   opts.Advisor,
		publisher: opts.Publisher,
		limiter:   ratelimit.NewLimiter(opts.RateLimit),
		sessions:  make(map[string]*session),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/boards", s.handleListBoards)
	mux.HandleFunc("POST /api/boards", s.handleCreateBoard)
	mux.HandleFunc("POST /api/boards/active", s.handleSetActiveBoard)
	mux.HandleFunc("PATCH /api/boards/{id}", s.handleRenameBoard)
	mux.HandleFunc("DELETE /api/boards/{id}", s.handleDeleteBoard)
	mux.HandleFunc("POST /api/boards/{id}/share", s.handleShareBoard)
	mux.HandleFunc("POST /api/boards/{id}/unshare", s.handleUnshareBoard)

	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/bills", s.handleListBills)
	mux.HandleFunc("POST /api/bills", s.handleCreateBill)
	mux.HandleFunc("PUT /api/bills/{id}", s.handleUpdateBill)
	mux.HandleFunc("DELETE /api/bills/{id}", s.handleDeleteBill)
	mux.HandleFunc("POST /api/bills/{id}/pay", s.handlePayBill)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("POST /api/suggestions", s.handleSuggestions)

	traced := trace.NewMiddleware(trace.ClientIP)
	handler := traced.Middleware(
		security.Headers(security.DefaultHeadersConfig())(
			s.limiter.Middleware(trace.ClientIP, nil)(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// session resolves the request's user and returns that user's initialized
// stores. The first request for a user loads (or bootstraps) their state.
func (s *Server) session(r *http.Request) (string, *session, error) {
	user, err := s.identity.CurrentUser(r)
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[user]
	if !ok {
		sess = &session{
			boards: store.NewBoardStore(s.persist, user),
			bills:  store.NewBillStore(s.persist, user),
		}
		s.sessions[user] = sess
	}
	s.mu.Unlock()

	sess.once.Do(func() {
		ctx := r.Context()
		if err := sess.boards.Init(ctx); err != nil {
			sess.initErr = err
			return
		}
		if err := sess.bills.Init(ctx); err != nil {
			sess.initErr = err
			return
		}
		slog.InfoContext(ctx, "Session initialized", "user", user)
	})
	if sess.initErr != nil {
		// Drop the broken session so the next request retries the load.
		s.mu.Lock()
		delete(s.sessions, user)
		s.mu.Unlock()
		return "", nil, sess.initErr
	}
	return user, sess, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
