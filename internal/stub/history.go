package stub

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/worklens/console-go/internal/domain/analysis"
)

// HistoryHandler serves the snapshot endpoints.
type HistoryHandler struct {
	store *Store
}

func NewHistoryHandler(store *Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

func (h *HistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req analysis.SaveSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		fieldErrors(w, http.StatusBadRequest, map[string][]string{
			"snapshot": {err.Error()},
		})
		return
	}

	ref := h.store.SaveSnapshot(analysis.Snapshot{
		Year:      req.Year,
		Month:     req.Month,
		Headcount: req.Headcount,
		NHT:       req.NHT,
		Terms:     req.Terms,
	}, req.IsFinal)
	writeJSON(w, http.StatusOK, ref)
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	refs := h.store.Snapshots()
	if refs == nil {
		refs = []analysis.SnapshotRef{}
	}
	writeJSON(w, http.StatusOK, refs)
}

func (h *HistoryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, ok := h.store.Snapshot(id)
	if !ok {
		pascalError(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// YearToDate aggregates the year's final snapshots into one body,
// summing numeric columns per department.
func (h *HistoryHandler) YearToDate(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year == 0 {
		year = time.Now().Year()
	}

	snaps := h.store.YearSnapshots(year)
	out := analysis.Snapshot{Year: year}
	for _, c := range analysis.Categories() {
		var groups [][]analysis.Row
		for _, snap := range snaps {
			if rows := snap.Rows(c); rows != nil {
				groups = append(groups, rows)
			}
		}
		merged := mergeRows(groups)
		switch c {
		case analysis.CategoryHeadcount:
			out.Headcount = merged
		case analysis.CategoryNHT:
			out.NHT = merged
		case analysis.CategoryTerms:
			out.Terms = merged
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// mergeRows sums numeric columns across row groups, keyed by the
// department column. Non-numeric columns keep the first value seen.
func mergeRows(groups [][]analysis.Row) []analysis.Row {
	if len(groups) == 0 {
		return nil
	}

	var order []string
	merged := make(map[string]analysis.Row)
	for _, rows := range groups {
		for _, row := range rows {
			key := departmentKey(row)
			acc, ok := merged[key]
			if !ok {
				acc = analysis.Row{}
				merged[key] = acc
				order = append(order, key)
			}
			for col, v := range row {
				switch val := v.(type) {
				case float64:
					if prev, ok := acc[col].(float64); ok {
						acc[col] = prev + val
					} else {
						acc[col] = val
					}
				default:
					if _, ok := acc[col]; !ok {
						acc[col] = v
					}
				}
			}
		}
	}

	out := make([]analysis.Row, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}

func departmentKey(row analysis.Row) string {
	for col, v := range row {
		if strings.EqualFold(strings.TrimSpace(col), "department") {
			if s, ok := v.(string); ok {
				return strings.ToLower(strings.TrimSpace(s))
			}
		}
	}
	return ""
}
