// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-sync-engine/internal/logger"
	"github.com/MKhiriev/go-sync-engine/internal/utils"
)

const testHashKey = "push-secret"

const pushedBody = `[{"object_id":{"source":1004,"name":"BOOKMARKS"},"version":12}]`

func signBody(body string) string {
	utils.InitHasherPool(testHashKey)
	return hex.EncodeToString(utils.Hash([]byte(body)))
}

// serveHashed runs body through withHashCheck and returns the response and
// the body the next handler read, if it was called.
func serveHashed(t *testing.T, key, body, hash string) (*httptest.ResponseRecorder, string, bool) {
	t.Helper()
	utils.InitHasherPool(testHashKey)

	var (
		seen   string
		called bool
	)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(b)
		w.WriteHeader(http.StatusAccepted)
	})

	h := NewHandler(Dependencies{HashKey: key}, logger.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/invalidations", strings.NewReader(body))
	if hash != "" {
		req.Header.Set(hashHeader, hash)
	}
	rr := httptest.NewRecorder()
	h.withHashCheck(next).ServeHTTP(rr, req)
	return rr, seen, called
}

func TestWithHashCheck(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		hash       string
		wantStatus int
		wantNext   bool
	}{
		{name: "valid hash", key: testHashKey, hash: signBody(pushedBody), wantStatus: http.StatusAccepted, wantNext: true},
		{name: "missing header", key: testHashKey, wantStatus: http.StatusBadRequest},
		{name: "hash of other body", key: testHashKey, hash: signBody(`[]`), wantStatus: http.StatusBadRequest},
		{name: "garbage hash", key: testHashKey, hash: "zz", wantStatus: http.StatusBadRequest},
		{name: "no key configured", wantStatus: http.StatusAccepted, wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, seen, called := serveHashed(t, tt.key, pushedBody, tt.hash)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNext, called)
			if tt.wantNext {
				assert.Equal(t, pushedBody, seen, "body must be restored for the next handler")
			}
		})
	}
}

func TestWithHashCheck_ErrorMessages(t *testing.T) {
	rr, _, _ := serveHashed(t, testHashKey, pushedBody, "")
	assert.Contains(t, rr.Body.String(), ErrMissingHash.Error())

	rr, _, _ = serveHashed(t, testHashKey, pushedBody, signBody("tampered"))
	assert.Contains(t, rr.Body.String(), ErrHashMismatch.Error())
}
