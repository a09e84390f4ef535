package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/coachplan/internal/doccache"
	"github.com/claude/coachplan/internal/models"
	"github.com/claude/coachplan/internal/plan"
	"github.com/claude/coachplan/internal/render"
	"github.com/claude/coachplan/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Store is the persistence the handlers need. *storage.DB satisfies it.
type Store interface {
	CreateClient(ctx context.Context, c models.Client) (models.Client, error)
	GetClient(ctx context.Context, id string) (models.Client, error)
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, c models.Client) error
	DeleteClient(ctx context.Context, id string) error

	CreateExercise(ctx context.Context, e models.Exercise) (models.Exercise, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	UpdateExercise(ctx context.Context, e models.Exercise) error
	DeleteExercise(ctx context.Context, id string) error

	CreateTool(ctx context.Context, t models.Tool) (models.Tool, error)
	ListTools(ctx context.Context) ([]models.Tool, error)
	DeleteTool(ctx context.Context, id string) error
	ToolNames(ctx context.Context) (map[string]string, error)

	SavePlan(ctx context.Context, p *plan.WorkoutPlan, now time.Time) error
	GetPlan(ctx context.Context, id uuid.UUID) (plan.WorkoutPlan, error)
	ListPlans(ctx context.Context, clientID string) ([]models.PlanSummary, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error

	GetStats(ctx context.Context) (*storage.Stats, error)
}

// DocCache stores rendered documents. *doccache.Cache satisfies it.
type DocCache interface {
	Get(k doccache.Key) (doccache.Entry, bool, error)
	Put(k doccache.Key, e doccache.Entry) error
	Invalidate(planID string) (int64, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        Store
	renderer     *render.Service
	cache        DocCache
	log          *slog.Logger
	apiKey       string
	defaultStyle render.Style
	whois        WhoIser
	mcp          http.Handler
	now          func() time.Time
	router       chi.Router
}

// New creates a new Server with all routes configured. cache may be nil.
func New(store Store, renderer *render.Service, cache DocCache, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:        store,
		renderer:     renderer,
		cache:        cache,
		log:          log,
		apiKey:       apiKey,
		defaultStyle: render.StyleCompact,
		now:          time.Now,
		router:       chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetDefaultStyle sets the style used when a request names none.
func (s *Server) SetDefaultStyle(style render.Style) {
	s.defaultStyle = style
}

// SetTailscale switches request identity from the dev user to tailnet WhoIs.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// MountMCP serves an MCP handler at /mcp behind the API key.
func (s *Server) MountMCP(h http.Handler) {
	s.mcp = h
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identify)

	s.router.Get("/api/v1/me", s.handleMe)

	// Coach endpoints (API key required)
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))

		r.Get("/stats", s.handleStats)

		r.Get("/clients", s.handleListClients)
		r.Post("/clients", s.handleCreateClient)
		r.Get("/clients/{id}", s.handleGetClient)
		r.Put("/clients/{id}", s.handleUpdateClient)
		r.Delete("/clients/{id}", s.handleDeleteClient)

		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleCreateExercise)
		r.Put("/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)

		r.Get("/tools", s.handleListTools)
		r.Post("/tools", s.handleCreateTool)
		r.Delete("/tools/{id}", s.handleDeleteTool)

		r.Get("/plans", s.handleListPlans)
		r.Post("/plans", s.handleCreatePlan)
		r.Get("/plans/{id}", s.handleGetPlan)
		r.Put("/plans/{id}", s.handleReplacePlan)
		r.Delete("/plans/{id}", s.handleDeletePlan)
		r.Get("/plans/{id}/document", s.handleDocument)
		r.Get("/plans/{id}/pages", s.handlePages)
	})

	// Client portal: the coach's API key, or a tailnet login matching the
	// client's email.
	s.router.Route("/api/v1/portal", func(r chi.Router) {
		r.Get("/clients/{clientID}/plans", s.handlePortalPlans)
		r.Get("/plans/{id}/weeks/{week}", s.handlePortalWeek)
		r.Get("/plans/{id}/document", s.handlePortalDocument)
	})

	s.router.Handle("/mcp", APIKeyAuth(s.apiKey)(http.HandlerFunc(s.serveMCP)))
}

func (s *Server) serveMCP(w http.ResponseWriter, r *http.Request) {
	if s.mcp == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "mcp not enabled"})
		return
	}
	s.mcp.ServeHTTP(w, r)
}
