package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── WriteJSON ────────────────────────────────────────────────────────────────

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		status   int
		wantBody string
	}{
		{name: "object", data: map[string]string{"key": "value"}, status: http.StatusOK, wantBody: `{"key":"value"}`},
		{name: "created", data: struct {
			ID string `json:"id"`
		}{ID: "c1"}, status: http.StatusCreated, wantBody: `{"id":"c1"}`},
		{name: "nil", data: nil, status: http.StatusOK, wantBody: `null`},
		{name: "slice", data: []int{1, 2, 3}, status: http.StatusOK, wantBody: `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			n, err := WriteJSON(w, tt.data, tt.status)
			require.NoError(t, err)
			assert.Equal(t, len(tt.wantBody), n)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestWriteJSON_Unencodable(t *testing.T) {
	w := httptest.NewRecorder()

	_, err := WriteJSON(w, make(chan int), http.StatusOK)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, "application/json", w.Header().Get("Content-Type"))
}

// ── ReadJSON ─────────────────────────────────────────────────────────────────

func TestReadJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		want    payload
		wantErr bool
	}{
		{name: "single value", body: `{"name":"folder"}`, want: payload{Name: "folder"}},
		{name: "trailing newline", body: "{\"name\":\"folder\"}\n", want: payload{Name: "folder"}},
		{name: "two values", body: `{"name":"a"}{"name":"b"}`, wantErr: true},
		{name: "broken", body: `{"name":`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
		{name: "too large", body: `{"name":"` + strings.Repeat("x", MaxJSONBody) + `"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var got payload
			err := ReadJSON(httptest.NewRecorder(), r, &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
