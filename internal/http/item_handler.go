package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"voting-system/internal/domain/item"
	"voting-system/internal/domain/vote"
	"voting-system/internal/platform/apperr"
)

type createItemRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// itemResponse is an item with its vote counts embedded. Votes is null for
// items that cannot be voted on or whose counts could not be read.
type itemResponse struct {
	item.Item
	Votes *vote.Aggregate `json:"votes"`
}

// @Summary     List published items
// @Tags        items
// @Produce     json
// @Success     200  {array}   itemResponse
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/items [get]
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	status := item.StatusPublished
	items, err := h.itemSvc.List(r.Context(), &status)
	if err != nil {
		errorResponse(w, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, itemResponse{Item: it, Votes: h.embeddedVotes(r.Context(), it)})
	}
	writeJSON(w, http.StatusOK, out)
}

// @Summary     Get a published item
// @Tags        items
// @Produce     json
// @Param       id   path      int64  true  "Item ID"
// @Success     200  {object}  itemResponse
// @Failure     400  {object}  map[string]string  "invalid id"
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/items/{id} [get]
func (h *Handler) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid id", err))
		return
	}

	it, err := h.itemSvc.Get(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	if it.Status != item.StatusPublished {
		errorResponse(w, item.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, itemResponse{Item: *it, Votes: h.embeddedVotes(r.Context(), *it)})
}

func (h *Handler) embeddedVotes(ctx context.Context, it item.Item) *vote.Aggregate {
	if !it.Eligible() {
		return nil
	}
	agg, err := h.votes.GetCounts(ctx, it.ID)
	if errors.Is(err, vote.ErrNotFound) {
		return &vote.Aggregate{}
	}
	if err != nil {
		logger.Warn("Failed to embed votes", zap.Int64("item_id", it.ID), zap.Error(err))
		return nil
	}
	return &agg
}

// @Summary     Create an item
// @Tags        items
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      createItemRequest  true  "Item payload"
// @Success     201      {object}  item.Item
// @Failure     400      {object}  map[string]string  "invalid body"
// @Failure     403      {object}  map[string]string  "forbidden"
// @Router      /api/v1/items [post]
func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	it := &item.Item{
		Title:    req.Title,
		Category: req.Category,
		Status:   req.Status,
		AuthorID: userIDFromCtx(r),
	}
	if err := h.itemSvc.Create(r.Context(), it); err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, it)
}

// @Summary     Publish or unpublish an item
// @Tags        items
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64                true  "Item ID"
// @Param       request  body  updateStatusRequest  true  "New status"
// @Success     204
// @Failure     400      {object}  map[string]string  "invalid status"
// @Failure     404      {object}  map[string]string  "not found"
// @Router      /api/v1/items/{id}/status [patch]
func (h *Handler) handleUpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid id", err))
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := h.itemSvc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Delete an item
// @Tags        items
// @Security    BearerAuth
// @Param       id   path  int64  true  "Item ID"
// @Success     204
// @Failure     404  {object}  map[string]string  "not found"
// @Router      /api/v1/items/{id} [delete]
func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid id", err))
		return
	}

	if err := h.itemSvc.Delete(r.Context(), id); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
