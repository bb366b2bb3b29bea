package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/worklens/console-go/internal/api"
	"github.com/worklens/console-go/internal/domain/analysis"
	"github.com/worklens/console-go/internal/pkg/validator"
	"github.com/xuri/excelize/v2"
)

// Backend is the slice of the API client the ingester needs.
type Backend interface {
	UploadCategory(ctx context.Context, category analysis.Category, filename string, file io.Reader, size int64, progress api.ProgressFunc) error
	FetchAnalysis(ctx context.Context, category analysis.Category) ([]analysis.Row, error)
}

// Recorder receives the refreshed rows after a successful upload.
type Recorder interface {
	RecordUpload(c analysis.Category, rows []analysis.Row) error
}

// Notifier is the transient-notification surface.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Service validates workforce spreadsheets locally, uploads them and
// refreshes the live analysis from the backend's aggregation.
type Service struct {
	backend Backend
	record  Recorder
	notify  Notifier
}

func NewService(backend Backend, record Recorder, notify Notifier) *Service {
	return &Service{backend: backend, record: record, notify: notify}
}

// expectedHeaders lists the columns each category's sheet must carry.
// Matching is case-insensitive and whitespace-tolerant.
var expectedHeaders = map[analysis.Category][]string{
	analysis.CategoryHeadcount: {"department", "headcount"},
	analysis.CategoryNHT:       {"department", "new hires", "transfers"},
	analysis.CategoryTerms:     {"department", "terminations", "avg headcount"},
}

// Ingest runs the full pipeline for one file: local preflight, upload,
// re-fetch of the aggregated rows, and installation into the live view.
func (s *Service) Ingest(ctx context.Context, category analysis.Category, path string, progress api.ProgressFunc) error {
	if err := Preflight(category, path); err != nil {
		s.notify.Error(err.Error())
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if err := s.backend.UploadCategory(ctx, category, filepath.Base(path), f, info.Size(), progress); err != nil {
		s.notify.Error(fmt.Sprintf("Failed to upload %s file: %s", category.DisplayName(), err))
		return err
	}

	rows, err := s.backend.FetchAnalysis(ctx, category)
	if err != nil {
		// The upload itself succeeded; the marker must still be recorded.
		s.notify.Warning(fmt.Sprintf("%s file uploaded, but refreshing the analysis failed: %s", category.DisplayName(), err))
		rows = nil
	} else {
		s.notify.Success(fmt.Sprintf("%s file uploaded successfully!", category.DisplayName()))
	}

	return s.record.RecordUpload(category, rows)
}

// Preflight checks a category spreadsheet before any bytes go over the
// wire.
func Preflight(category analysis.Category, path string) error {
	return PreflightSheet(path, category.DisplayName(), expectedHeaders[category])
}

// PreflightSheet checks any upload workbook: the extension must be a
// known workbook format, the workbook must contain exactly one
// non-empty sheet, and that sheet's header row must carry the required
// columns.
func PreflightSheet(path, label string, columns []string) error {
	var (
		sheets  int
		headers []string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		sheets, headers, err = readXLSX(path)
	case ".xls":
		sheets, headers, err = readXLS(path)
	default:
		return validator.ValidationErrors{{
			Field:   "file",
			Message: "file must be an .xlsx or .xls workbook",
		}}
	}
	if err != nil {
		return fmt.Errorf("failed to read workbook %s: %w", path, err)
	}

	if sheets != 1 {
		return validator.ValidationErrors{{
			Field:   "file",
			Message: fmt.Sprintf("workbook must contain exactly one non-empty sheet, found %d", sheets),
		}}
	}

	var missing []string
	for _, want := range columns {
		if !hasHeader(headers, want) {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return validator.ValidationErrors{{
			Field: "file",
			Message: fmt.Sprintf("%s sheet is missing required columns: %s",
				label, strings.Join(missing, ", ")),
		}}
	}
	return nil
}

// readXLSX returns the non-empty sheet count and the header row of the
// first non-empty sheet.
func readXLSX(path string) (int, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer f.Close()

	wb, err := excelize.OpenReader(f)
	if err != nil {
		return 0, nil, err
	}
	defer wb.Close()

	var (
		sheets  int
		headers []string
	)
	for _, name := range wb.GetSheetList() {
		rows, err := wb.GetRows(name)
		if err != nil {
			return 0, nil, err
		}
		header := firstNonEmptyRow(rows)
		if header == nil {
			continue
		}
		sheets++
		if headers == nil {
			headers = header
		}
	}
	return sheets, headers, nil
}

func readXLS(path string) (int, []string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return 0, nil, err
	}

	var (
		sheets  int
		headers []string
	)
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			var cells []string
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		header := firstNonEmptyRow(rows)
		if header == nil {
			continue
		}
		sheets++
		if headers == nil {
			headers = header
		}
	}
	return sheets, headers, nil
}

func firstNonEmptyRow(rows [][]string) []string {
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return row
			}
		}
	}
	return nil
}

func hasHeader(headers []string, want string) bool {
	want = normalizeHeader(want)
	for _, h := range headers {
		if normalizeHeader(h) == want {
			return true
		}
	}
	return false
}

// normalizeHeader lowercases and collapses runs of whitespace so
// "New  Hires" and "new hires" compare equal.
func normalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}
