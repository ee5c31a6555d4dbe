package http

import (
	"encoding/json"
	"net/http"
	"strings"

	syncx "github.com/mind-engage/mindengage-qpaper/internal/sync"
)

type auditEvent struct {
	Seq       int64           `json:"seq"`
	SiteID    string          `json:"site_id"`
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
}

// GET /api/audit/events?type=PaperGenerated&limit=50
func ListAuditEventsHandler(repo *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := strings.TrimSpace(r.URL.Query().Get("type"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		events, err := repo.Recent(r.Context(), typ, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		out := make([]auditEvent, 0, len(events))
		for _, e := range events {
			out = append(out, auditEvent{
				Seq:       e.Seq,
				SiteID:    e.SiteID,
				Type:      e.Type,
				Key:       e.Key,
				Data:      json.RawMessage(e.DataJSON),
				CreatedAt: e.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
