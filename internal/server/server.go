package server

import (
	"net/http"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
)

// NewServer builds the local API server. It fails when no address is
// configured; callers treat that as "API disabled".
func NewServer(handler http.Handler, cfg config.ClientServer, logger *logger.Logger) (Server, error) {
	if cfg.HTTPAddress == "" {
		return nil, errNoAddress
	}
	if handler == nil {
		return nil, errNoHandler
	}

	logger.Info().Str("addr", cfg.HTTPAddress).Msg("creating new server...")
	return newHTTPServer(handler, cfg.HTTPAddress, logger), nil
}

// IsDisabled reports whether err from NewServer means no address was
// configured.
func IsDisabled(err error) bool {
	return err == errNoAddress
}
