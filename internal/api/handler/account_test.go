package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/loglens/loglens/internal/api/handler"
	"github.com/loglens/loglens/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteAccount_RemovesLogs(t *testing.T) {
	s := registeredStore(t, "com.acme.app", "s3cr3t")
	s.deletedN = 7
	c := newMockCache()
	h := handler.NewDeleteAccountHandler(s, c)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authedRequest("DELETE", "/api/account", nil, "com.acme.app"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, "com.acme.app", s.deletedPkg)
	assert.Contains(t, c.deleted, cache.RecentLogsKey("com.acme.app"))
}

// Open question: account deletion removes only the logs, so the package row
// survives and the name stays permanently reserved with its old password.
// This matches the dashboard's historical behavior; this test pins it down
// rather than silently changing it.
func TestDeleteAccount_PackageRowSurvives(t *testing.T) {
	s := registeredStore(t, "com.acme.app", "s3cr3t")
	h := handler.NewDeleteAccountHandler(s, newMockCache())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authedRequest("DELETE", "/api/account", nil, "com.acme.app"))

	require.Equal(t, http.StatusOK, w.Code)
	_, stillRegistered := s.packages["com.acme.app"]
	assert.True(t, stillRegistered, "package record should remain after account deletion")
}

func TestDeleteAccount_StoreFailure(t *testing.T) {
	s := registeredStore(t, "com.acme.app", "s3cr3t")
	s.deleteErr = errors.New("connection refused")
	h := handler.NewDeleteAccountHandler(s, newMockCache())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, authedRequest("DELETE", "/api/account", nil, "com.acme.app"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteAccount_NoPackageInContext(t *testing.T) {
	h := handler.NewDeleteAccountHandler(newMockStore(), newMockCache())

	req := httptest.NewRequest("DELETE", "/api/account", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
