package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	mw "github.com/loglens/loglens/internal/api/middleware"
	"github.com/loglens/loglens/internal/api/response"
	"github.com/loglens/loglens/internal/cache"
	"github.com/loglens/loglens/internal/store"
	"github.com/loglens/loglens/internal/stream"
	"github.com/loglens/loglens/pkg/models"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
	recentLogsTTL    = 5 * time.Second
)

// incomingLog is the loosely shaped record a client submits. Any package or
// tenant field the client includes is simply not decoded; ownership comes
// from the verified token alone.
type incomingLog struct {
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Meta      map[string]any `json:"meta"`
	Timestamp *time.Time     `json:"timestamp"`
}

// NewIngestHandler returns the handler for POST /api/log. It accepts a batch
// of log records, stamps each one with the token's package name, persists the
// batch, and publishes it to live stream subscribers.
func NewIngestHandler(s store.Store, c cache.Cache, hub *stream.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packageName, ok := mw.GetPackageName(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		var body struct {
			Logs json.RawMessage `json:"logs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		var incoming []incomingLog
		if len(body.Logs) == 0 || json.Unmarshal(body.Logs, &incoming) != nil {
			response.Error(w, http.StatusBadRequest, "Invalid logs format")
			return
		}
		if incoming == nil {
			// "logs": null decodes cleanly but is not an array.
			response.Error(w, http.StatusBadRequest, "Invalid logs format")
			return
		}

		now := time.Now().UTC()
		entries := make([]*models.LogEntry, 0, len(incoming))
		for _, in := range incoming {
			createdAt := now
			if in.Timestamp != nil {
				createdAt = in.Timestamp.UTC()
			}
			level := in.Level
			if level == "" {
				level = models.LevelInfo
			}
			entries = append(entries, &models.LogEntry{
				ID:          uuid.New(),
				PackageName: packageName, // authoritative, from the token
				Level:       level,
				Message:     in.Message,
				Meta:        in.Meta,
				CreatedAt:   createdAt,
			})
		}

		if len(entries) > 0 {
			if err := s.InsertLogs(r.Context(), entries); err != nil {
				response.Error(w, http.StatusInternalServerError, "Failed to store logs")
				return
			}
			hub.Publish(packageName, entries)
			c.Delete(r.Context(), cache.RecentLogsKey(packageName))
		}

		response.Success(w)
	}
}

// NewListLogsHandler returns the handler for GET /api/logs. Results are the
// token's own logs, newest first. The default-limit query is cached briefly.
func NewListLogsHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packageName, ok := mw.GetPackageName(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		limit := defaultListLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				response.Error(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = n
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}

		cacheable := limit == defaultListLimit
		key := cache.RecentLogsKey(packageName)
		if cacheable {
			if data, hit, err := c.Get(r.Context(), key); err == nil && hit {
				w.Header().Set("Content-Type", "application/json")
				w.Write(data)
				return
			}
		}

		entries, err := s.ListLogs(r.Context(), packageName, limit)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Failed to fetch logs")
			return
		}
		if entries == nil {
			entries = []*models.LogEntry{}
		}

		payload, err := json.Marshal(map[string]any{"logs": entries})
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		if cacheable {
			c.Set(r.Context(), key, payload, recentLogsTTL)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(payload)
	}
}

// NewClearLogsHandler returns the handler for DELETE /api/logs, the
// dashboard's "clear logs" action.
func NewClearLogsHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		packageName, ok := mw.GetPackageName(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		deleted, err := s.DeleteLogs(r.Context(), packageName)
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "Failed to clear logs")
			return
		}
		c.Delete(r.Context(), cache.RecentLogsKey(packageName))

		response.JSON(w, http.StatusOK, map[string]any{
			"success": true,
			"deleted": deleted,
		})
	}
}
