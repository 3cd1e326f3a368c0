package handler

import (
	"net/http"

	mw "github.com/loglens/loglens/internal/api/middleware"
	"github.com/loglens/loglens/internal/api/response"
	"github.com/loglens/loglens/internal/cache"
	"github.com/loglens/loglens/internal/store"
)

// NewDeleteAccountHandler returns the handler for DELETE /api/account.
//
// Deletion removes the package's logs but leaves the package record itself,
// so the name stays registered and its password unchanged. That mirrors the
// dashboard's long-standing behavior; whether the record should go too is an
// open question tracked in the tests.
func NewDeleteAccountHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packageName, ok := mw.GetPackageName(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		if _, err := s.DeleteLogs(r.Context(), packageName); err != nil {
			response.Error(w, http.StatusInternalServerError, "Failed to delete account")
			return
		}
		c.Delete(r.Context(), cache.RecentLogsKey(packageName))

		response.Success(w)
	}
}
