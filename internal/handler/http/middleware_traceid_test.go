package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
)

func newTestHandler() *Handler {
	return &Handler{logger: logger.Nop()}
}

// serveTraced runs a request with the given X-Trace-ID through withTraceID
// and returns the response and the request seen by the next handler.
func serveTraced(h *Handler, traceID string) (*httptest.ResponseRecorder, *http.Request) {
	var seen *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	if traceID != "" {
		req.Header.Set(traceIDHeader, traceID)
	}
	rr := httptest.NewRecorder()
	h.withTraceID(next).ServeHTTP(rr, req)
	return rr, seen
}

func TestWithTraceID_TableTest(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantSame bool
		wantUUID bool
	}{
		{name: "incoming id is reused", incoming: "trace-from-push-server", wantSame: true},
		{name: "uuid incoming id is reused", incoming: "550e8400-e29b-41d4-a716-446655440000", wantSame: true, wantUUID: true},
		{name: "missing id is generated", wantUUID: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, seen := serveTraced(newTestHandler(), tt.incoming)
			require.NotNil(t, seen)

			got := rr.Header().Get(traceIDHeader)
			require.NotEmpty(t, got)
			if tt.wantSame {
				assert.Equal(t, tt.incoming, got)
			}
			if tt.wantUUID {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			}

			fromCtx, ok := utils.GetTraceIDFromContext(seen.Context())
			require.True(t, ok)
			assert.Equal(t, got, fromCtx)
			assert.NotNil(t, logger.FromRequest(seen))
		})
	}
}

func TestWithTraceID_GeneratesUniqueIDs(t *testing.T) {
	h := newTestHandler()
	seen := make(map[string]struct{})

	for i := 0; i < 50; i++ {
		rr, _ := serveTraced(h, "")
		id := rr.Header().Get(traceIDHeader)
		_, dup := seen[id]
		require.False(t, dup, "duplicate trace ID %s", id)
		seen[id] = struct{}{}
	}
}

func TestWithTraceID_OriginalRequestNotMutated(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	original := req.Context()

	h.withTraceID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, original, req.Context())
}
