package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
	"github.com/MKhiriev/go-sync-engine/models"
)

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	t, err := parseModelType(r.URL.Query().Get("type"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.listItems").Msg("invalid type parameter")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.deps.Items.List(r.Context(), t)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listItems").Msg("error listing items")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, items, http.StatusOK)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	item, err := h.deps.Items.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.getItem").Msg("error getting item")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, item, http.StatusOK)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateItemRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.createItem").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	item, err := h.deps.Items.Create(r.Context(), req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.createItem").Msg("error creating item")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, item, http.StatusCreated)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.UpdateItemRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.updateItem").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	item, err := h.deps.Items.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.updateItem").Msg("error updating item")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, item, http.StatusOK)
}

func (h *Handler) moveItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.MoveItemRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.moveItem").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	item, err := h.deps.Items.Move(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.moveItem").Msg("error moving item")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, item, http.StatusOK)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.deps.Items.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		log.Err(err).Str("func", "*Handler.deleteItem").Msg("error deleting item")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseModelType accepts a type name ("Bookmarks", "TYPED_URLS") or its
// number.
func parseModelType(raw string) (models.ModelType, error) {
	if t, ok := models.ModelTypeFromString(raw); ok && t.IsReal() {
		return t, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if t := models.ModelType(n); t.IsReal() {
			return t, nil
		}
	}
	return models.Unspecified, fmt.Errorf("%w: %q", ErrUnknownModelType, raw)
}
