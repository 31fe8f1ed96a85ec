package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alanyoungcy/sportsarb/internal/domain"
)

// OpportunityHandler serves the latest cycle and opportunity history.
type OpportunityHandler struct {
	latest SnapshotReader
	store  domain.OpportunityStore
	logger *slog.Logger
}

// NewOpportunityHandler creates an OpportunityHandler. store may be nil when
// no database is configured.
func NewOpportunityHandler(latest SnapshotReader, store domain.OpportunityStore, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{latest: latest, store: store, logger: logger}
}

// Latest returns the most recent cycle snapshot. Optional filters:
// ?sport=nfl and ?min_margin=1.5 narrow the opportunity list.
// GET /api/opportunities
func (h *OpportunityHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snap, err := h.latest.GetLatest(r.Context())
	if err != nil {
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "load latest snapshot", slog.String("error", err.Error()))
		}
		writeError(w, code, "no completed cycle yet")
		return
	}

	q := r.URL.Query()
	sport := domain.Sport(strings.ToLower(strings.TrimSpace(q.Get("sport"))))
	minMargin := 0.0
	if v := q.Get("min_margin"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "min_margin must be a number")
			return
		}
		minMargin = f
	}

	if sport != "" || minMargin > 0 {
		filtered := make([]domain.Opportunity, 0, len(snap.Opportunities))
		for _, opp := range snap.Opportunities {
			if sport != "" && opp.Sport != sport {
				continue
			}
			if opp.ProfitMarginPercent < minMargin {
				continue
			}
			filtered = append(filtered, opp)
		}
		snap.Opportunities = filtered
	}
	if snap.Opportunities == nil {
		snap.Opportunities = []domain.Opportunity{}
	}

	writeJSON(w, http.StatusOK, snap)
}

// Recent returns persisted opportunities across cycles, newest first.
// GET /api/opportunities/recent
func (h *OpportunityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "opportunity history is not configured")
		return
	}

	opps, err := h.store.ListRecent(r.Context(), parseLimit(r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list recent opportunities", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "failed to list opportunities")
		return
	}
	if opps == nil {
		opps = []domain.Opportunity{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"opportunities": opps,
		"count":         len(opps),
	})
}
