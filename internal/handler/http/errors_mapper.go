package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-sync-engine/internal/encryption"
	"github.com/MKhiriev/go-sync-engine/internal/service"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrUnknownType:         http.StatusBadRequest,
	service.ErrInvalidParent:       http.StatusBadRequest,
	service.ErrIllegalMove:         http.StatusBadRequest,
	service.ErrItemNotFound:        http.StatusNotFound,
	service.ErrPermanentItem:       http.StatusForbidden,
	service.ErrFolderNotEmpty:      http.StatusConflict,
	service.ErrDuplicateClientTag:  http.StatusConflict,
	service.ErrTypeNotReady:        http.StatusServiceUnavailable,

	encryption.ErrPendingKeys:           http.StatusConflict,
	encryption.ErrNoPendingKeys:         http.StatusConflict,
	encryption.ErrExplicitPassphraseSet: http.StatusConflict,
	encryption.ErrWrongPassphrase:       http.StatusForbidden,

	ErrUnknownModelType:        http.StatusBadRequest,
	ErrUnknownInvalidatorState: http.StatusBadRequest,
	ErrMissingHash:             http.StatusBadRequest,
	ErrHashMismatch:            http.StatusBadRequest,
	ErrUnknownPurpose:          http.StatusBadRequest,

	context.Canceled:         http.StatusRequestTimeout,
	context.DeadlineExceeded: http.StatusGatewayTimeout,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
