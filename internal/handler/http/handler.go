package http

import (
	"net/http"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/service"
	"github.com/MKhiriev/go-sync-engine/models"
)

// Dependencies are the engine parts the local API talks to. Metrics and
// DeleteJournals may be nil, in which case their routes are not served.
type Dependencies struct {
	Items          service.ItemService
	DeleteJournals service.DeleteJournalService
	Status         StatusSource
	Invalidations  InvalidationSink
	Credentials    CredentialsUpdater
	Encryption     EncryptionController
	Metrics        http.Handler
	BuildInfo      models.AppBuildInfo
	// HashKey enables the HashSHA256 check on pushed invalidations.
	HashKey string
}

type Handler struct {
	deps Dependencies

	logger *logger.Logger
}

func NewHandler(deps Dependencies, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		deps:   deps,
		logger: logger,
	}
}
