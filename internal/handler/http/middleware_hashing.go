package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-sync-engine/internal/utils"
)

const hashHeader = "HashSHA256"

// withHashCheck verifies the HMAC of pushed payloads when a hash key is
// configured. The body is restored for the next handler.
func (h *Handler) withHashCheck(next http.Handler) http.Handler {
	if h.deps.HashKey == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Debug().Str("func", "*Handler.withHashCheck").Msg("checking hash begins")

		fromRequest := r.Header.Get(hashHeader)
		if fromRequest == "" {
			h.logger.Error().Str("func", "*Handler.withHashCheck").Msg("no hash was given")
			http.Error(w, ErrMissingHash.Error(), http.StatusBadRequest)
			return
		}

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Err(err).Str("func", "*Handler.withHashCheck").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !utils.VerifyHash(body, fromRequest) {
			h.logger.Error().Str("func", "*Handler.withHashCheck").
				Str("hash from request", fromRequest).
				Msg("hashes are not equal")
			http.Error(w, ErrHashMismatch.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
