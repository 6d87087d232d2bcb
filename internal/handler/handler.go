package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/bashkirian/cutline-analytics/internal/config"
	"github.com/bashkirian/cutline-analytics/internal/engine"
	"github.com/bashkirian/cutline-analytics/internal/export"
	"github.com/bashkirian/cutline-analytics/internal/session"
	"github.com/bashkirian/cutline-analytics/internal/ws"
	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// Handler serves the analytics API. Every derived view is recomputed from
// the current session and the request's filter parameters; nothing is cached
// across sessions.
type Handler struct {
	manager  *session.Manager
	hub      *ws.Hub
	defaults config.EngineConfig
	log      *zap.Logger
}

func New(manager *session.Manager, hub *ws.Hub, defaults config.EngineConfig, log *zap.Logger) *Handler {
	return &Handler{
		manager:  manager,
		hub:      hub,
		defaults: defaults,
		log:      log,
	}
}

// POST /api/session/refresh - acquire a new session
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, err := h.manager.Refresh(r.Context())
	if err != nil {
		if errors.Is(err, session.ErrSuperseded) {
			writeJSON(w, http.StatusConflict, map[string]string{
				"message": "refresh superseded by a newer request",
			})
			return
		}
		h.log.Error("session refresh failed", zap.Error(err))
		http.Error(w, "Failed to refresh session", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, sessionSummary(sess))
}

// GET /api/session - current session metadata
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess := h.manager.Current()
	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]string{"message": "no session loaded"})
		return
	}
	writeJSON(w, http.StatusOK, sessionSummary(sess))
}

// GET /api/series - 60 per-minute buckets plus totals and throughput
func (h *Handler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	events := h.timeFiltered(r.URL.Query())
	writeJSON(w, http.StatusOK, engine.Aggregate(events))
}

// GET /api/peak - busiest 10-minute contiguous window
func (h *Handler) HandlePeak(w http.ResponseWriter, r *http.Request) {
	events := h.timeFiltered(r.URL.Query())
	series := engine.Aggregate(events)
	writeJSON(w, http.StatusOK, engine.FindPeakWindow(series.Buckets))
}

// GET /api/events - display-filtered event list
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	events := h.displayFiltered(r.URL.Query())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

// GET /api/events/export - the same list as /api/events, as CSV
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	events := h.displayFiltered(r.URL.Query())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := export.WriteCSV(w, events); err != nil {
		h.log.Error("csv export failed", zap.Error(err))
	}
}

// GET /ws - websocket upgrade into the notification hub
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws.ServeWS(h.hub, w, r)
}

// GET /health - healthcheck
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// timeFiltered returns the current session's events restricted to the
// requested time range. No session means an empty working set.
func (h *Handler) timeFiltered(query url.Values) []models.DetectionEvent {
	sess := h.manager.Current()
	if sess == nil {
		return nil
	}

	window := query.Get("window")
	if window == "" {
		window = h.defaults.Window
	}
	return engine.FilterByTime(sess.Events, engine.TimeRange{
		From:   query.Get("from"),
		To:     query.Get("to"),
		Window: window,
	})
}

// displayFiltered applies the confidence and category cuts on top of the
// time filter. The event table and the CSV export both go through here, so
// the two can never diverge.
func (h *Handler) displayFiltered(query url.Values) []models.DetectionEvent {
	events := h.timeFiltered(query)

	minConfidence := h.defaults.ConfidenceThreshold
	if raw := query.Get("min_confidence"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			v = -1 // unrecognized, the engine treats it as "no filter"
		}
		minConfidence = v
	}

	return engine.FilterForDisplay(events, engine.DisplayParams{
		MinConfidence: minConfidence,
		Size:          query.Get("size"),
	})
}

func sessionSummary(sess *models.Session) map[string]interface{} {
	return map[string]interface{}{
		"session_id":       sess.ID,
		"event_count":      len(sess.Events),
		"duration_seconds": sess.DurationSeconds,
		"synthetic":        sess.Synthetic,
		"created_at":       sess.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
