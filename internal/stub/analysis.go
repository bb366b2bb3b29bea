package stub

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/worklens/console-go/internal/domain/analysis"
	"github.com/xuri/excelize/v2"
)

// AnalysisHandler serves the per-category upload and aggregation
// endpoints.
type AnalysisHandler struct {
	store *Store
}

func NewAnalysisHandler(store *Store) *AnalysisHandler {
	return &AnalysisHandler{store: store}
}

func categoryParam(r *http.Request) (analysis.Category, error) {
	return analysis.ParseCategory(chi.URLParam(r, "category"))
}

// Upload accepts a multipart workbook, parses its single sheet into
// rows and installs them as the category's aggregated data.
func (h *AnalysisHandler) Upload(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		pascalError(w, http.StatusNotFound, err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		messageError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		// Legacy .xls files reach production through a converter the stub
		// does not carry.
		rawError(w, http.StatusUnsupportedMediaType, "only .xlsx uploads are supported by the development backend")
		return
	}

	rows, err := parseWorkbook(file)
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("Workbook parse failed")
		rawError(w, http.StatusBadRequest, "could not parse workbook: "+err.Error())
		return
	}

	h.store.SetCategory(category, rows)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  fmt.Sprintf("%s data uploaded", category.DisplayName()),
		"rowCount": len(rows),
	})
}

// Analysis returns the category's current aggregated rows.
func (h *AnalysisHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	category, err := categoryParam(r)
	if err != nil {
		pascalError(w, http.StatusNotFound, err.Error())
		return
	}
	rows := h.store.Category(category)
	if rows == nil {
		rows = []analysis.Row{}
	}
	writeJSON(w, http.StatusOK, rows)
}

// parseWorkbook turns the first sheet into rows keyed by the header
// row. Numeric cells become float64 so the console renders them as
// numbers.
func parseWorkbook(file io.Reader) ([]analysis.Row, error) {
	wb, err := excelize.OpenReader(file)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	cells, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(cells) < 1 {
		return nil, fmt.Errorf("sheet is empty")
	}

	headers := cells[0]
	var rows []analysis.Row
	for _, record := range cells[1:] {
		row := analysis.Row{}
		empty := true
		for i, h := range headers {
			if strings.TrimSpace(h) == "" {
				continue
			}
			var value string
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			if value == "" {
				continue
			}
			empty = false
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				row[h] = n
			} else {
				row[h] = value
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
