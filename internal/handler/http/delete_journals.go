package http

import (
	"net/http"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
)

type purgeResponse struct {
	Purged int `json:"purged"`
}

func (h *Handler) listDeleteJournals(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	t, err := parseModelType(r.URL.Query().Get("type"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.listDeleteJournals").Msg("invalid type parameter")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := h.deps.DeleteJournals.List(r.Context(), t)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listDeleteJournals").Msg("error listing delete journal")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, items, http.StatusOK)
}

// purgeDeleteJournals drops the records named by the repeated id parameter,
// or the whole journal of the type when no id is given.
func (h *Handler) purgeDeleteJournals(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	query := r.URL.Query()
	t, err := parseModelType(query.Get("type"))
	if err != nil {
		log.Err(err).Str("func", "*Handler.purgeDeleteJournals").Msg("invalid type parameter")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n, err := h.deps.DeleteJournals.Purge(r.Context(), t, query["id"])
	if err != nil {
		log.Err(err).Str("func", "*Handler.purgeDeleteJournals").Msg("error purging delete journal")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, purgeResponse{Purged: n}, http.StatusOK)
}
