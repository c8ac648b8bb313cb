package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-sync-engine/internal/directory"
	"github.com/MKhiriev/go-sync-engine/internal/invalidation"
	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/mock"
	"github.com/MKhiriev/go-sync-engine/internal/scheduler"
	"github.com/MKhiriev/go-sync-engine/internal/service"
	"github.com/MKhiriev/go-sync-engine/models"
)

type testAPI struct {
	items  *mock.MockItemService
	status *fakeStatus
	sink   *fakeSink
	creds  *fakeCredentials
	router http.Handler
}

func newTestAPI(t *testing.T, opts ...func(*Dependencies)) *testAPI {
	t.Helper()
	ctrl := gomock.NewController(t)

	api := &testAPI{
		items:  mock.NewMockItemService(ctrl),
		status: &fakeStatus{connected: true},
		sink:   &fakeSink{},
		creds:  &fakeCredentials{},
	}
	deps := Dependencies{
		Items:         api.items,
		Status:        api.status,
		Invalidations: api.sink,
		Credentials:   api.creds,
		BuildInfo:     models.NewAppBuildInfo("v0.1.0", "", ""),
	}
	for _, opt := range opts {
		opt(&deps)
	}
	api.router = NewHandler(deps, logger.Nop()).Init()
	return api
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// ── Items ───────────────────────────────────────────────────────────────────

func TestRoutes_ListItems(t *testing.T) {
	api := newTestAPI(t)
	api.items.EXPECT().List(gomock.Any(), models.Bookmarks).Return([]models.Item{
		{ID: "c1", Type: models.Bookmarks, Name: "news", Folder: true},
		{ID: "c2", ParentID: "c1", Type: models.Bookmarks, Name: "daily"},
	}, nil)

	rr := api.do(http.MethodGet, "/api/items/?type=bookmarks", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var got []models.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "daily", got[1].Name)
	assert.Equal(t, "c1", got[1].ParentID)
}

func TestRoutes_ListItems_TypeByNumber(t *testing.T) {
	api := newTestAPI(t)
	api.items.EXPECT().List(gomock.Any(), models.Preferences).Return(nil, nil)

	rr := api.do(http.MethodGet, "/api/items/?type="+jsonNumber(models.Preferences), "")

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_ListItems_UnknownType(t *testing.T) {
	api := newTestAPI(t)

	for _, q := range []string{"", "?type=passwords_of_doom", "?type=0"} {
		rr := api.do(http.MethodGet, "/api/items/"+q, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, q)
	}
}

func TestRoutes_CreateItem(t *testing.T) {
	api := newTestAPI(t)
	api.items.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req models.CreateItemRequest) (models.Item, error) {
			assert.Equal(t, models.Bookmarks, req.Type)
			assert.Equal(t, "go.dev", req.Name)
			assert.JSONEq(t, `{"url":"https://go.dev"}`, string(req.Data))
			return models.Item{ID: "c7", Type: req.Type, Name: req.Name, Data: req.Data, Unsynced: true}, nil
		})

	body := `{"type":` + jsonNumber(models.Bookmarks) + `,"name":"go.dev","data":{"url":"https://go.dev"}}`
	rr := api.do(http.MethodPost, "/api/items/", body)

	require.Equal(t, http.StatusCreated, rr.Code)
	var got models.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "c7", got.ID)
	assert.True(t, got.Unsynced)
}

func TestRoutes_CreateItem_InvalidJSON(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(http.MethodPost, "/api/items/", `{"type":`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoutes_GetItem(t *testing.T) {
	api := newTestAPI(t)
	api.items.EXPECT().Get(gomock.Any(), "s42").Return(models.Item{ID: "s42", Name: "remote", Version: 3}, nil)

	rr := api.do(http.MethodGet, "/api/items/s42", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"version":3`)
}

func TestRoutes_UpdateItem(t *testing.T) {
	api := newTestAPI(t)
	api.items.EXPECT().
		Update(gomock.Any(), "c3", gomock.Any()).
		DoAndReturn(func(_ any, _ string, req models.UpdateItemRequest) (models.Item, error) {
			require.NotNil(t, req.Name)
			assert.Equal(t, "renamed", *req.Name)
			assert.Nil(t, req.Data)
			return models.Item{ID: "c3", Name: *req.Name}, nil
		})

	rr := api.do(http.MethodPatch, "/api/items/c3", `{"name":"renamed"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_MoveItem(t *testing.T) {
	api := newTestAPI(t)
	api.items.EXPECT().
		Move(gomock.Any(), "c3", models.MoveItemRequest{ParentID: "c1", PredecessorID: "c2"}).
		Return(models.Item{ID: "c3", ParentID: "c1"}, nil)

	rr := api.do(http.MethodPost, "/api/items/c3/move", `{"parent_id":"c1","predecessor_id":"c2"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_DeleteItem(t *testing.T) {
	api := newTestAPI(t)
	api.items.EXPECT().Delete(gomock.Any(), "c3").Return(nil)

	rr := api.do(http.MethodDelete, "/api/items/c3", "")

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestRoutes_ItemErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: service.ErrItemNotFound, wantStatus: http.StatusNotFound},
		{name: "permanent", err: service.ErrPermanentItem, wantStatus: http.StatusForbidden},
		{name: "not empty", err: service.ErrFolderNotEmpty, wantStatus: http.StatusConflict},
		{name: "type not ready", err: service.ErrTypeNotReady, wantStatus: http.StatusServiceUnavailable},
		{name: "unexpected", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.items.EXPECT().Delete(gomock.Any(), "c9").Return(tt.err)

			rr := api.do(http.MethodDelete, "/api/items/c9", "")

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

// ── Sync control ────────────────────────────────────────────────────────────

func TestRoutes_Refresh(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.ModelTypeSet
	}{
		{name: "named types", body: `{"types":["bookmarks","PREFERENCES"]}`, want: models.NewModelTypeSet(models.Bookmarks, models.Preferences)},
		{name: "empty means all user types", body: `{}`, want: models.UserTypes()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.items.EXPECT().RequestRefresh(tt.want)

			rr := api.do(http.MethodPost, "/api/refresh", tt.body)

			assert.Equal(t, http.StatusAccepted, rr.Code)
		})
	}
}

func TestRoutes_Refresh_UnknownType(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(http.MethodPost, "/api/refresh", `{"types":["nope"]}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoutes_Credentials(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(http.MethodPut, "/api/credentials", `{"token":"fresh-token"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, []string{"fresh-token"}, api.creds.tokens)

	rr = api.do(http.MethodPut, "/api/credentials", `{"token":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, api.creds.tokens, 1)
}

// ── Invalidations ───────────────────────────────────────────────────────────

func TestRoutes_PushInvalidations(t *testing.T) {
	api := newTestAPI(t)

	body := `[
		{"object_id":{"source":1004,"name":"BOOKMARKS"},"version":12},
		{"object_id":{"source":1004,"name":"PREFERENCES"},"is_unknown_version":true,
		 "ack_handle":{"state":"from-server","timestamp":"2026-10-01T00:00:00Z"}}
	]`
	rr := api.do(http.MethodPost, "/api/invalidations", body)

	require.Equal(t, http.StatusAccepted, rr.Code)
	require.Len(t, api.sink.pushed, 2)
	assert.Equal(t, int64(12), api.sink.pushed[0].Version)
	assert.True(t, api.sink.pushed[0].AckHandle.IsValid(), "missing handles are generated")
	assert.Equal(t, "from-server", api.sink.pushed[1].AckHandle.State)
	assert.True(t, api.sink.pushed[1].UnknownVersion)
}

func TestRoutes_PushInvalidations_SinkError(t *testing.T) {
	api := newTestAPI(t)
	api.sink.err = errors.New("listener stopped")

	rr := api.do(http.MethodPost, "/api/invalidations", `[]`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRoutes_PushInvalidations_HashRequired(t *testing.T) {
	api := newTestAPI(t, func(d *Dependencies) { d.HashKey = testHashKey })

	rr := api.do(http.MethodPost, "/api/invalidations", pushedBody)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, api.sink.pushed)

	req := httptest.NewRequest(http.MethodPost, "/api/invalidations", strings.NewReader(pushedBody))
	req.Header.Set(hashHeader, signBody(pushedBody))
	signed := httptest.NewRecorder()
	api.router.ServeHTTP(signed, req)

	assert.Equal(t, http.StatusAccepted, signed.Code)
	assert.Len(t, api.sink.pushed, 1)
}

func TestRoutes_InvalidatorState(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodPut, "/api/invalidations/state", `{"state":"transient_error"}`).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodPut, "/api/invalidations/state", `{"state":" Enabled "}`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPut, "/api/invalidations/state", `{"state":"sleepy"}`).Code)

	assert.Equal(t, []invalidation.State{invalidation.TransientError, invalidation.Enabled}, api.sink.states)
}

// ── Inspection ──────────────────────────────────────────────────────────────

func TestRoutes_Health(t *testing.T) {
	api := newTestAPI(t)
	api.status.connected = false

	rr := api.do(http.MethodGet, "/healthz", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","connected":false}`, rr.Body.String())
}

func TestRoutes_DebugStatus(t *testing.T) {
	api := newTestAPI(t)
	api.status.sched = scheduler.Status{Started: true, Mode: "normal"}
	api.status.dirty = 4
	api.status.unacked = []invalidation.UnackedState{{
		ObjectID:      models.ObjectIDForModelType(models.Bookmarks),
		Invalidations: []models.Invalidation{models.NewInvalidation(models.ObjectIDForModelType(models.Bookmarks), 5, "")},
	}}

	rr := api.do(http.MethodGet, "/debug/status", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.JSONEq(t, `4`, string(got["dirty_entries"]))
	assert.JSONEq(t, `true`, string(got["connected"]))
	assert.Contains(t, string(got["scheduler"]), `"mode":"normal"`)
	assert.Contains(t, string(got["unacked_invalidations"]), `"version":5`)
	assert.Contains(t, got, "last_cycle")
}

func TestRoutes_DebugEntries(t *testing.T) {
	api := newTestAPI(t)
	api.status.entries = []directory.EntryKernel{
		{Metahandle: 2, ID: "s1", NonUniqueName: "news", Specifics: models.NewSpecifics(models.Bookmarks, nil), IsUnsynced: true},
		{Metahandle: 3, ID: "s2", NonUniqueName: "theme", Specifics: models.NewSpecifics(models.Preferences, nil)},
	}

	rr := api.do(http.MethodGet, "/debug/entries?type=bookmarks", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got []directory.EntryKernel
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, directory.ID("s1"), got[0].ID)
	assert.True(t, got[0].IsUnsynced)

	rr = api.do(http.MethodGet, "/debug/entries", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/debug/entries?type=zzz", "").Code)
}

func withDeleteJournals(t *testing.T) (*mock.MockDeleteJournalService, func(*Dependencies)) {
	journals := mock.NewMockDeleteJournalService(gomock.NewController(t))
	return journals, func(d *Dependencies) { d.DeleteJournals = journals }
}

func TestRoutes_ListDeleteJournals(t *testing.T) {
	journals, opt := withDeleteJournals(t)
	api := newTestAPI(t, opt)
	journals.EXPECT().List(gomock.Any(), models.Bookmarks).Return([]models.Item{
		{ID: "sgone", Type: models.Bookmarks, Name: "gone"},
	}, nil)

	rr := api.do(http.MethodGet, "/debug/delete-journals?type=bookmarks", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var got []models.Item
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "sgone", got[0].ID)
}

func TestRoutes_ListDeleteJournals_TypeWithoutJournal(t *testing.T) {
	journals, opt := withDeleteJournals(t)
	api := newTestAPI(t, opt)
	journals.EXPECT().List(gomock.Any(), models.Preferences).Return(nil, service.ErrUnknownType)

	rr := api.do(http.MethodGet, "/debug/delete-journals?type=preferences", "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRoutes_PurgeDeleteJournals(t *testing.T) {
	journals, opt := withDeleteJournals(t)
	api := newTestAPI(t, opt)
	journals.EXPECT().Purge(gomock.Any(), models.Bookmarks, []string{"sa", "sb"}).Return(2, nil)
	journals.EXPECT().Purge(gomock.Any(), models.Bookmarks, gomock.Nil()).Return(5, nil)

	rr := api.do(http.MethodDelete, "/debug/delete-journals?type=bookmarks&id=sa&id=sb", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"purged":2}`, rr.Body.String())

	rr = api.do(http.MethodDelete, "/debug/delete-journals?type=bookmarks", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"purged":5}`, rr.Body.String())

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, "/debug/delete-journals?type=zzz", "").Code)
}

func TestRoutes_DeleteJournalsNotServedWithoutService(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/debug/delete-journals?type=bookmarks", "").Code)
}

func TestRoutes_Metrics(t *testing.T) {
	withMetrics := newTestAPI(t, func(d *Dependencies) {
		d.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("sync_cycles_total 3\n"))
		})
	})
	rr := withMetrics.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "sync_cycles_total")

	without := newTestAPI(t)
	assert.Equal(t, http.StatusNotFound, without.do(http.MethodGet, "/metrics", "").Code)
}

func TestRoutes_Version(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(http.MethodGet, "/version", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "version: v0.1.0")
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(http.MethodPost, "/healthz", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET", rr.Header().Get("Allow"))
}

func jsonNumber(t models.ModelType) string {
	b, _ := json.Marshal(t)
	return string(b)
}
