// Package auditevents exposes the audit trail to administrators.
package auditevents

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/placementhub/placementhub/internal/app/store/audit"
	"github.com/placementhub/placementhub/internal/app/system/apierror"
	"github.com/placementhub/placementhub/internal/app/system/httpjson"
	"github.com/placementhub/placementhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// maxQueryLimit caps a single audit query; the store defaults to 100 when
// no limit is given.
const maxQueryLimit = 500

type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

func NewHandler(auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Audit: auditStore, Log: logger}
}

// ServeQuery handles GET /admin/audit. Filters: userId, category, type,
// from, to (RFC 3339), limit.
func (h *Handler) ServeQuery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium)
	defer cancel()

	filter := audit.QueryFilter{
		UserID:    query.Get(r, "userId"),
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "type"),
	}

	if s := query.Get(r, "limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 1 {
			httpjson.Error(w, h.Log, apierror.Validation("invalid limit"))
			return
		}
		if n > maxQueryLimit {
			n = maxQueryLimit
		}
		filter.Limit = n
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &filter.StartTime},
		{"to", &filter.EndTime},
	} {
		if s := query.Get(r, p.name); s != "" {
			ts, err := time.Parse(time.RFC3339, s)
			if err != nil {
				httpjson.Error(w, h.Log, apierror.Validationf("invalid %s timestamp", p.name))
				return
			}
			*p.dst = &ts
		}
	}

	events, err := h.Audit.Query(ctx, filter)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httpjson.Respond(w, http.StatusOK, map[string]any{"events": events})
}
