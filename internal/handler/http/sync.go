package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/internal/syncer"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
	"github.com/MKhiriev/go-sync-engine/models"
)

type healthResponse struct {
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
}

type statusResponse struct {
	Scheduler    scheduler.Status            `json:"scheduler"`
	LastCycle    syncer.CycleStatus          `json:"last_cycle"`
	Unacked      []invalidation.UnackedState `json:"unacked_invalidations"`
	DirtyEntries int                         `json:"dirty_entries"`
	Connected    bool                        `json:"connected"`
}

type refreshRequest struct {
	Types []string `json:"types"`
}

type invalidatorStateRequest struct {
	State string `json:"state"`
}

type credentialsRequest struct {
	Token string `json:"token"`
}

var invalidatorStates = map[string]invalidation.State{
	"enabled":              invalidation.Enabled,
	"transient_error":      invalidation.TransientError,
	"credentials_rejected": invalidation.CredentialsRejected,
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, healthResponse{Status: "ok", Connected: h.deps.Status.Connected()}, http.StatusOK)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	src := h.deps.Status
	utils.WriteJSON(w, statusResponse{
		Scheduler:    src.SchedulerStatus(),
		LastCycle:    src.LastCycle(),
		Unacked:      src.UnackedInvalidations(),
		DirtyEntries: src.DirtyCount(),
		Connected:    src.Connected(),
	}, http.StatusOK)
}

// entries dumps raw directory entries, including server-side fields and
// flags, optionally limited with ?type=.
func (h *Handler) entries(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	t := models.Unspecified
	if raw := r.URL.Query().Get("type"); raw != "" {
		var err error
		if t, err = parseModelType(raw); err != nil {
			log.Err(err).Str("func", "*Handler.entries").Msg("invalid type parameter")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	utils.WriteJSON(w, h.deps.Status.Entries(t), http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req refreshRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.refresh").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	var types models.ModelTypeSet
	for _, name := range req.Types {
		t, err := parseModelType(name)
		if err != nil {
			log.Err(err).Str("func", "*Handler.refresh").Msg("invalid type in refresh request")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		types = types.With(t)
	}
	if types.Empty() {
		types = models.UserTypes()
	}

	h.deps.Items.RequestRefresh(types)
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) pushInvalidations(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var invs []models.Invalidation
	if err := utils.ReadJSON(w, r, &invs); err != nil {
		log.Err(err).Str("func", "*Handler.pushInvalidations").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}
	for i := range invs {
		if !invs[i].AckHandle.IsValid() {
			invs[i].AckHandle = models.NewAckHandle()
		}
	}

	if err := h.deps.Invalidations.OnInvalidate(r.Context(), invs); err != nil {
		log.Err(err).Str("func", "*Handler.pushInvalidations").Msg("error storing invalidations")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) setInvalidatorState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req invalidatorStateRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		log.Err(err).Str("func", "*Handler.setInvalidatorState").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	state, ok := invalidatorStates[strings.ToLower(strings.TrimSpace(req.State))]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownInvalidatorState, req.State)
		log.Err(err).Str("func", "*Handler.setInvalidatorState").Send()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.deps.Invalidations.UpdateInvalidatorState(state)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateCredentials(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req credentialsRequest
	if err := utils.ReadJSON(w, r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		log.Error().Err(err).Str("func", "*Handler.updateCredentials").Msg("no token was given")
		http.Error(w, "no token was given", http.StatusBadRequest)
		return
	}

	h.deps.Credentials.UpdateCredentials(req.Token)
	w.WriteHeader(http.StatusNoContent)
}
