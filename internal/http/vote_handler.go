package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"voting-system/internal/domain/vote"
	"voting-system/internal/platform/apperr"
	"voting-system/internal/worker"
)

type voteRequest struct {
	ItemID   int64  `json:"item_id"`
	VoteType string `json:"vote_type"`
}

type voteResponse struct {
	Success bool `json:"success"`
	vote.Result
}

type votesResponse struct {
	Success bool           `json:"success"`
	ItemID  int64          `json:"item_id"`
	Votes   vote.Aggregate `json:"votes"`
}

// @Summary     Cast a vote
// @Tags        votes
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      voteRequest  true  "Vote payload"
// @Success     200      {object}  voteResponse
// @Failure     400      {object}  map[string]string  "invalid body or vote type"
// @Failure     401      {object}  map[string]string  "unauthorized"
// @Failure     404      {object}  map[string]string  "item not eligible"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Failure     500      {object}  map[string]string  "vote update failed"
// @Router      /api/v1/votes [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	kind := vote.Kind(strings.ToLower(strings.TrimSpace(req.VoteType)))
	res, err := h.votes.CastVote(r.Context(), req.ItemID, kind)
	if err != nil {
		errorResponse(w, err)
		return
	}

	select {
	case h.voteCh <- worker.VoteEvent{ItemID: res.ItemID, Kind: string(res.Kind), At: time.Now()}:
	default:
	}

	writeJSON(w, http.StatusOK, voteResponse{Success: true, Result: res})
}

// @Summary     Vote counts for an item
// @Tags        votes
// @Produce     json
// @Param       id   path      int64  true  "Item ID"
// @Success     200  {object}  votesResponse
// @Failure     400  {object}  map[string]string  "invalid id"
// @Failure     404  {object}  map[string]string  "item not eligible or no votes"
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/votes/{id} [get]
func (h *Handler) handleGetVotes(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid item id", err))
		return
	}

	agg, err := h.votes.FetchVotes(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, votesResponse{Success: true, ItemID: id, Votes: agg})
}
