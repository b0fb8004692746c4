package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/storage"
	"github.com/claude/gymlog/internal/workout"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/tailscale/apitype"
)

// Store is the record-store surface the handlers and sessions consume.
// *storage.DB satisfies it; tests swap in fakes.
type Store interface {
	workout.Store
	ListExercises(ctx context.Context, userID int) ([]models.Exercise, error)
	GetOrCreateExercise(ctx context.Context, userID int, name string) (models.Exercise, error)
	RoutineExercises(ctx context.Context, userID int, routineID int64) ([]models.RoutineExercise, error)
	ListRoutines(ctx context.Context, userID int) ([]models.Routine, error)
	GetRoutine(ctx context.Context, userID int, routineID int64) (models.Routine, error)
	CreateRoutine(ctx context.Context, userID int, name string, exerciseIDs []int64) (models.Routine, error)
	QueryAllSets(ctx context.Context, userID int) ([]storage.SetWithExercise, error)
	InsertImportedSets(ctx context.Context, userID int, rows []models.Set) (int64, error)
	GetOrCreateUser(ctx context.Context, login, displayName string) (models.User, error)
}

var _ Store = (*storage.DB)(nil)

// WhoIsClient resolves a remote address to a Tailscale identity. Satisfied
// by the tsnet local client.
type WhoIsClient interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       Store
	sessions *sessionRegistry
	log      *slog.Logger
	apiKey   string
	whois    WhoIsClient
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		sessions: newSessionRegistry(),
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity resolution from the dev fallback to
// Tailscale WhoIs lookups.
func (s *Server) SetTailscale(lc WhoIsClient) {
	s.whois = lc
}

// SetMCP mounts an MCP transport handler under /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

// Close tears down all live workout sessions.
func (s *Server) Close() {
	s.sessions.CloseAll()
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	// Import endpoint (API key required)
	s.router.Route("/api/v1/import", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleImport)
	})

	s.router.Get("/api/v1/me", s.handleMe)

	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Post("/api/v1/exercises", s.handleCreateExercise)

	s.router.Get("/api/v1/routines", s.handleListRoutines)
	s.router.Post("/api/v1/routines", s.handleCreateRoutine)
	s.router.Get("/api/v1/routines/{id}", s.handleGetRoutine)

	s.router.Get("/api/v1/history", s.handleHistory)

	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleCloseSession)
			r.Post("/exercise", s.handleSelectExercise)
			r.Post("/exercises", s.handleSessionCreateExercise)
			r.Post("/sets", s.handleSaveSets)
			r.Post("/sets/{setID}/delete", s.handleRequestDelete)
			r.Post("/delete/{token}/confirm", s.handleConfirmDelete)
			r.Post("/delete/{token}/cancel", s.handleCancelDelete)
			r.Post("/extra-mode", s.handleToggleExtraMode)
			r.Post("/extra", s.handleIncludeExtra)
			r.Post("/timer/pause", s.handleTimerPause)
			r.Post("/timer/resume", s.handleTimerResume)
			r.Post("/timer/dismiss", s.handleTimerDismiss)
			r.Post("/timer/adjust", s.handleTimerAdjust)
		})
	})
}

// identity resolves the caller's identity: Tailscale WhoIs when configured,
// the fixed local dev user otherwise.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.whois == nil {
			DevIdentity(next).ServeHTTP(w, r)
			return
		}

		res, err := s.whois.WhoIs(r.Context(), r.RemoteAddr)
		if err != nil || res.UserProfile == nil {
			s.log.Warn("whois failed", "remote", r.RemoteAddr, "error", err)
			http.Error(w, `{"error":"identity lookup failed"}`, http.StatusInternalServerError)
			return
		}

		info := UserInfo{Login: res.UserProfile.LoginName, DisplayName: res.UserProfile.DisplayName}
		user, err := s.db.GetOrCreateUser(r.Context(), info.Login, info.DisplayName)
		if err != nil {
			s.log.Error("user lookup failed", "login", info.Login, "error", err)
			http.Error(w, `{"error":"user lookup failed"}`, http.StatusInternalServerError)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, user.ID)
		ctx = context.WithValue(ctx, userInfoKey, info)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
