package api

import (
	"net/http"

	"voting-system/internal/domain/vote"
	"voting-system/internal/platform/apperr"
)

type voteReport struct {
	OrderBy vote.OrderField   `json:"orderby"`
	Order   vote.Direction    `json:"order"`
	Items   []vote.ListedItem `json:"items"`
	Summary vote.Summary      `json:"summary"`
}

// @Summary     Vote report across all eligible items
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Param       orderby  query     string  false  "title, upvotes, downvotes, total or score"
// @Param       order    query     string  false  "asc or desc"
// @Success     200      {object}  voteReport
// @Failure     403      {object}  map[string]string  "forbidden"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/admin/votes [get]
func (h *Handler) handleVoteReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.lister.List(r.Context(), q.Get("orderby"), q.Get("order"))
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, voteReport{
		OrderBy: vote.ParseOrder(q.Get("orderby")),
		Order:   vote.ParseDirection(q.Get("order")),
		Items:   rows,
		Summary: vote.Summarize(rows),
	})
}

// @Summary     Reset an item's votes
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Param       id   path      int64  true  "Item ID"
// @Success     200  {object}  votesResponse
// @Failure     404  {object}  map[string]string  "item not eligible"
// @Failure     500  {object}  map[string]string  "vote update failed"
// @Router      /api/v1/admin/votes/{id}/reset [post]
func (h *Handler) handleResetVotes(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid item id", err))
		return
	}

	if err := h.votes.Reset(r.Context(), id); err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, votesResponse{Success: true, ItemID: id, Votes: vote.Aggregate{}})
}

// @Summary     Create missing counters for every eligible item
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  map[string]any
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/admin/votes/backfill [post]
func (h *Handler) handleBackfill(w http.ResponseWriter, r *http.Request) {
	created, err := h.votes.InitializeAll(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "created": created})
}

// @Summary     Flush the vote cache
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  map[string]any
// @Failure     503  {object}  map[string]string  "cache unavailable"
// @Router      /api/v1/admin/cache/flush [post]
func (h *Handler) handleFlushCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.votes.FlushCache(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "flushed": n})
}

// @Summary     Cache tier statistics
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  vote.CacheStatus
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/admin/cache/stats [get]
func (h *Handler) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	status, err := h.votes.CacheStats(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
