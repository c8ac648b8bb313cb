package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
)

const (
	purposeEncrypt = "encrypt"
	purposeDecrypt = "decrypt"
)

type encryptionStateResponse struct {
	PassphraseType     string   `json:"passphrase_type"`
	EncryptEverything  bool     `json:"encrypt_everything"`
	EncryptedTypes     []string `json:"encrypted_types"`
	PendingKeys        bool     `json:"pending_keys"`
	MigratedToKeystore bool     `json:"migrated_to_keystore"`
}

// passphraseRequest sets a custom passphrase (purpose "encrypt") or unlocks
// pending keys (purpose "decrypt").
type passphraseRequest struct {
	Passphrase string `json:"passphrase"`
	Purpose    string `json:"purpose"`
}

func (h *Handler) encryptionState(w http.ResponseWriter, r *http.Request) {
	enc := h.deps.Encryption

	types := make([]string, 0)
	for _, t := range enc.GetEncryptedTypes().Slice() {
		types = append(types, t.String())
	}

	utils.WriteJSON(w, encryptionStateResponse{
		PassphraseType:     enc.GetPassphraseType().String(),
		EncryptEverything:  enc.EncryptEverythingEnabled(),
		EncryptedTypes:     types,
		PendingKeys:        enc.HasPendingKeys(),
		MigratedToKeystore: enc.MigratedToKeystore(),
	}, http.StatusOK)
}

func (h *Handler) setPassphrase(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req passphraseRequest
	if err := utils.ReadJSON(w, r, &req); err != nil || req.Passphrase == "" {
		log.Error().Err(err).Str("func", "*Handler.setPassphrase").Msg("no passphrase was given")
		http.Error(w, "no passphrase was given", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Purpose {
	case purposeEncrypt:
		err = h.deps.Encryption.SetEncryptionPassphrase(req.Passphrase)
	case purposeDecrypt, "":
		err = h.deps.Encryption.SetDecryptionPassphrase(req.Passphrase)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownPurpose, req.Purpose)
	}
	if err != nil {
		log.Err(err).Str("func", "*Handler.setPassphrase").Str("purpose", req.Purpose).Msg("passphrase rejected")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) encryptEverything(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.deps.Encryption.EnableEncryptEverything(); err != nil {
		log.Err(err).Str("func", "*Handler.encryptEverything").Msg("error enabling encrypt everything")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
