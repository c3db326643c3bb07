package lead

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/canvasspace/canvasaem/internal/httputil"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	exportBatchSize = 500
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type listResponse struct {
	Leads  []Lead `json:"leads"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset, msg := pageParams(r)
	if msg != "" {
		httputil.WriteError(w, http.StatusBadRequest, msg)
		return
	}

	leads, err := h.repo.List(r.Context(), limit, offset)
	if err != nil {
		slog.Error("lead: list failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	total, err := h.repo.Count(r.Context())
	if err != nil {
		slog.Error("lead: count failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to count leads")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, listResponse{Leads: leads, Total: total, Limit: limit, Offset: offset})
}

var csvHeader = []string{"id", "created_at", "name", "email", "company", "country", "city", "browser", "device", "session_id"}

// Export streams every lead as CSV, newest first.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	first, err := h.repo.List(r.Context(), exportBatchSize, 0)
	if err != nil {
		slog.Error("lead: export failed", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to export leads")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leads-%s.csv"`, time.Now().UTC().Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader)

	batch, offset := first, 0
	for {
		for _, l := range batch {
			_ = cw.Write([]string{
				l.ID, l.CreatedAt.UTC().Format(time.RFC3339), csvCell(l.Name), csvCell(l.Email), csvCell(l.Company),
				l.Country, l.City, csvCell(l.Browser), csvCell(l.Device), l.SessionID,
			})
		}
		if len(batch) < exportBatchSize {
			break
		}
		offset += len(batch)
		batch, err = h.repo.List(r.Context(), exportBatchSize, offset)
		if err != nil {
			slog.Error("lead: export batch failed", "offset", offset, "error", err)
			break
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		slog.Error("lead: export write failed", "error", err)
	}
}

// csvCell quotes values a spreadsheet would evaluate as a formula.
func csvCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func pageParams(r *http.Request) (limit, offset int, msg string) {
	limit, offset = defaultPageSize, 0
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, "limit must be a positive integer"
		}
		limit = min(n, maxPageSize)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, "offset must be a non-negative integer"
		}
		offset = n
	}
	return limit, offset, ""
}
