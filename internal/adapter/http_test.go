// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-sync-engine/internal/config"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
	"github.com/MKhiriev/go-sync-engine/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHashKey = "testhashkey"

// newTestAdapter creates an httpServerAdapter pointed at the test server.
func newTestAdapter(t *testing.T, serverURL string) *httpServerAdapter {
	t.Helper()
	adapterCfg := config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: time.Second, AuthToken: "opaque-token"}
	appCfg := config.ClientApp{HashKey: testHashKey}

	a, err := NewHTTPServerAdapter(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return a.(*httpServerAdapter)
}

func jwtWithExpiry(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("server-key"))
	require.NoError(t, err)
	return s
}

func testCommitRequest() models.CommitRequest {
	return models.CommitRequest{
		CacheGUID:     "guid",
		StoreBirthday: "birthday",
		Entries: []models.SyncEntity{{
			IDString: "c-1",
			Name:     "item",
			Specifics: models.NewSpecifics(models.Bookmarks, []byte(`{"url":"https://example.com"}`)),
		}},
	}
}

// ── Commit ──────────────────────────────────────────────────────────────────

func TestCommit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, commitPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer opaque-token", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, utils.HashString(string(body), testHashKey), r.Header.Get(hashHeader))

		var req models.CommitRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "guid", req.CacheGUID)
		require.Len(t, req.Entries, 1)

		_ = json.NewEncoder(w).Encode(models.CommitResponse{
			Entries: []models.CommitResponseEntry{{ResponseType: models.CommitSuccess, IDString: "s-1", Version: 1}},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	resp, err := a.Commit(context.Background(), testCommitRequest())

	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "s-1", resp.Entries[0].IDString)
	assert.Equal(t, int64(1), resp.Entries[0].Version)
	assert.True(t, a.IsConnected())
}

func TestCommit_ProtocolErrorInEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.CommitResponse{
			ResponseStatus: models.ResponseStatus{ErrorCode: models.NotMyBirthday},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	resp, err := a.Commit(context.Background(), testCommitRequest())

	// envelope errors are for the syncer to interpret
	require.NoError(t, err)
	assert.Equal(t, models.NotMyBirthday, resp.ErrorCode)
}

func TestCommit_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Commit(context.Background(), testCommitRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.ErrorIs(t, err, models.ServerResponseValidationFailed)
}

// ── GetUpdates ──────────────────────────────────────────────────────────────

func TestGetUpdates_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, updatesPath, r.URL.Path)

		var req models.GetUpdatesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.OriginPeriodic, req.Origin)
		assert.True(t, req.NeedEncryptionKey)

		_ = json.NewEncoder(w).Encode(models.GetUpdatesResponse{
			Entries:          []models.SyncEntity{{IDString: "s-1", Version: 3, Name: "a"}},
			ChangesRemaining: 7,
			EncryptionKeys:   [][]byte{[]byte("k1")},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	resp, err := a.GetUpdates(context.Background(), models.GetUpdatesRequest{
		CacheGUID:         "guid",
		Origin:            models.OriginPeriodic,
		NeedEncryptionKey: true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, int64(7), resp.ChangesRemaining)
	assert.Equal(t, [][]byte{[]byte("k1")}, resp.EncryptionKeys)
}

func TestGetUpdates_ForwardsTraceID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "trace-42", r.Header.Get(traceIDHeader))
		_, _ = w.Write([]byte(`{"entries":[]}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.GetUpdates(utils.WithTraceID(context.Background(), "trace-42"), models.GetUpdatesRequest{})

	require.NoError(t, err)
}

// ── Error mapping ───────────────────────────────────────────────────────────

func TestCommit_HTTPErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		retryAfter string
		sentinel   error
		syncerErr  models.SyncerError
		protocol   models.SyncProtocolErrorType
		throttle   time.Duration
	}{
		{name: "bad request", status: http.StatusBadRequest, sentinel: ErrBadRequest, syncerErr: models.ServerReturnUnknownError},
		{name: "forbidden", status: http.StatusForbidden, sentinel: ErrForbidden, syncerErr: models.SyncAuthError},
		{name: "not found", status: http.StatusNotFound, sentinel: ErrNotFound, syncerErr: models.SyncServerError},
		{name: "conflict", status: http.StatusConflict, sentinel: ErrConflict, syncerErr: models.ServerReturnConflict},
		{name: "bad gateway", status: http.StatusBadGateway, sentinel: ErrBadGateway, syncerErr: models.SyncServerError},
		{name: "internal", status: http.StatusInternalServerError, sentinel: ErrInternalServerError, syncerErr: models.SyncServerError},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, syncerErr: models.SyncServerError},
		{name: "teapot", status: http.StatusTeapot, syncerErr: models.ServerReturnUnknownError},
		{name: "unauthorized", status: http.StatusUnauthorized, sentinel: ErrUnauthorized, protocol: models.InvalidCredential},
		{name: "too many requests", status: http.StatusTooManyRequests, sentinel: ErrThrottled, protocol: models.Throttled},
		{name: "unavailable with retry-after", status: http.StatusServiceUnavailable, retryAfter: "30",
			sentinel: ErrThrottled, protocol: models.Throttled, throttle: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.retryAfter != "" {
					w.Header().Set("Retry-After", tt.retryAfter)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("server says no"))
			}))
			defer srv.Close()

			a := newTestAdapter(t, srv.URL)
			resp, err := a.Commit(context.Background(), testCommitRequest())

			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
			if tt.syncerErr != models.Unset {
				assert.ErrorIs(t, err, tt.syncerErr)
			} else {
				var perr models.SyncProtocolError
				require.ErrorAs(t, err, &perr)
				assert.Equal(t, tt.protocol, perr.ErrorType)
				assert.Equal(t, tt.throttle, perr.Throttle)
			}
			// an HTTP answer means the server is reachable
			assert.True(t, a.IsConnected())
		})
	}
}

func TestCommit_UnauthorizedRejectsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	require.True(t, a.HasValidCredentials())

	_, err := a.Commit(context.Background(), testCommitRequest())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, a.HasValidCredentials())

	a.SetToken("fresh-token")
	assert.True(t, a.HasValidCredentials())
}

// ── Connection status ───────────────────────────────────────────────────────

func TestCommit_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	a := newTestAdapter(t, srv.URL)
	srv.Close()

	var changes []bool
	a.OnConnectionChange(func(connected bool) { changes = append(changes, connected) })

	_, err := a.Commit(context.Background(), testCommitRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.ErrorIs(t, err, models.NetworkConnectionUnavailable)
	assert.False(t, a.IsConnected())
	assert.Equal(t, []bool{false}, changes)

	// a second failure is not a change
	_, _ = a.Commit(context.Background(), testCommitRequest())
	assert.Equal(t, []bool{false}, changes)

	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pingPath, r.URL.Path)
	}))
	defer up.Close()
	a.client.SetBaseURL(up.URL)

	require.NoError(t, a.Ping(context.Background()))
	assert.True(t, a.IsConnected())
	assert.Equal(t, []bool{false, true}, changes)
}

func TestCommit_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	a.client.SetTimeout(50 * time.Millisecond)

	_, err := a.Commit(context.Background(), testCommitRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, models.NetworkIOError)
	assert.True(t, a.IsConnected())
}

// ── Credentials ─────────────────────────────────────────────────────────────

func TestHasValidCredentials(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{name: "empty", token: "", want: false},
		{name: "opaque", token: "opaque", want: true},
		{name: "jwt valid", token: jwtWithExpiry(t, now.Add(time.Hour)), want: true},
		{name: "jwt expired", token: jwtWithExpiry(t, now.Add(-time.Minute)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, "http://localhost:1")
			a.now = func() time.Time { return now }
			a.SetToken(tt.token)

			assert.Equal(t, tt.want, a.HasValidCredentials())
		})
	}
}

func TestCommit_PicksUpRotatedToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer rotated-token")
		_, _ = w.Write([]byte(`{"entries":[]}`))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Commit(context.Background(), testCommitRequest())

	require.NoError(t, err)
	assert.Equal(t, "rotated-token", a.Token())
}

// ── retryAfter ──────────────────────────────────────────────────────────────

func TestRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "120", 2 * time.Minute},
		{"negative", "-5", 0},
		{"http date", now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{"past date", now.Add(-time.Hour).Format(http.TimeFormat), 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryAfter(tt.header, now))
		})
	}
}

// ── normalizeBaseURL ─────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid http", "http://localhost:8080", "http://localhost:8080", false},
		{"no scheme", "localhost:8080", "http://localhost:8080", false},
		{"trailing slash", "http://localhost:8080/", "http://localhost:8080", false},
		{"empty", "", "", true},
		{"no host", "http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewHTTPServerAdapter_InvalidAddress(t *testing.T) {
	_, err := NewHTTPServerAdapter(config.ClientAdapter{}, config.ClientApp{}, logger.Nop())
	require.Error(t, err)
}
