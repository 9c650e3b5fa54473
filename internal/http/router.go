package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"voting-system/internal/domain/item"
	"voting-system/internal/domain/user"
	"voting-system/internal/domain/vote"
	jwtpkg "voting-system/internal/platform/jwt"
	"voting-system/internal/worker"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Users  *user.Service
	Items  *item.Service
	Votes  *vote.Engine
	Lister *vote.Lister
	JWT    *jwtpkg.Manager
	// VoteEvents receives accepted votes; sends never block.
	VoteEvents chan<- worker.VoteEvent
	DB         Pinger

	VoteRate  rate.Limit
	VoteBurst int
	// CollectionMaxAge feeds the Cache-Control header on item listings.
	CollectionMaxAge time.Duration
}

type Handler struct {
	userSvc *user.Service
	itemSvc *item.Service
	votes   *vote.Engine
	lister  *vote.Lister
	jwtMgr  *jwtpkg.Manager
	voteCh  chan<- worker.VoteEvent
	db      Pinger
}

func NewRouter(d Deps) http.Handler {
	h := &Handler{
		userSvc: d.Users,
		itemSvc: d.Items,
		votes:   d.Votes,
		lister:  d.Lister,
		jwtMgr:  d.JWT,
		voteCh:  d.VoteEvents,
		db:      d.DB,
	}
	if d.VoteRate <= 0 {
		d.VoteRate = rate.Every(time.Minute / 30)
	}
	if d.VoteBurst <= 0 {
		d.VoteBurst = 10
	}
	if d.CollectionMaxAge <= 0 {
		d.CollectionMaxAge = time.Hour
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Get("/votes/{id}", h.handleGetVotes)
		r.With(CacheControl(d.CollectionMaxAge)).Get("/items", h.handleListItems)
		r.Get("/items/{id}", h.handleGetItem)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(d.JWT))

			r.With(RateLimitVotes(d.VoteRate, d.VoteBurst)).Post("/votes", h.handleVote)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(user.RoleAdmin))
				r.Post("/items", h.handleCreateItem)
				r.Patch("/items/{id}/status", h.handleUpdateItemStatus)
				r.Delete("/items/{id}", h.handleDeleteItem)

				r.Route("/admin", func(r chi.Router) {
					r.Get("/votes", h.handleVoteReport)
					r.Post("/votes/{id}/reset", h.handleResetVotes)
					r.Post("/votes/backfill", h.handleBackfill)
					r.Post("/cache/flush", h.handleFlushCache)
					r.Get("/cache/stats", h.handleCacheStats)
					r.Get("/users", h.handleListUsers)
					r.Patch("/users/{id}/role", h.handleUpdateUserRole)
				})
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	return strconv.ParseInt(idStr, 10, 64)
}

// @Summary     Readiness probe
// @Tags        ops
// @Produce     json
// @Success     200  {object}  map[string]any
// @Failure     503  {object}  map[string]string  "database not ready"
// @Router      /ready [get]
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	// The cache is optional; report it without failing readiness.
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"cache":  h.votes.CacheAvailable(ctx),
	})
}
