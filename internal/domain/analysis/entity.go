package analysis

import "fmt"

// Category identifies one of the three workforce analysis datasets.
type Category string

const (
	CategoryHeadcount Category = "headcount"
	CategoryNHT       Category = "nht"
	CategoryTerms     Category = "terms"
)

// Categories returns all categories in their fixed display order.
func Categories() []Category {
	return []Category{CategoryHeadcount, CategoryNHT, CategoryTerms}
}

func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryHeadcount, CategoryNHT, CategoryTerms:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown analysis category %q", s)
}

// DisplayName is the label the console shows for a category section.
func (c Category) DisplayName() string {
	switch c {
	case CategoryHeadcount:
		return "Headcount"
	case CategoryNHT:
		return "Career Management"
	case CategoryTerms:
		return "Turnover"
	}
	return string(c)
}

// Row is one aggregated department/org-unit row. The backend owns the
// column set per category; the console passes rows through untouched.
type Row map[string]interface{}

// CategoryState is the live container for one category: the current
// aggregated rows plus the lifecycle of the latest fetch and upload.
type CategoryState struct {
	Data    []Row
	Loading bool
	Error   string

	Uploading      bool
	UploadProgress float64
	UploadError    string
}

// SnapshotRef is a history list entry.
type SnapshotRef struct {
	ID        string `json:"id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"monthName"`
	IsFinal   bool   `json:"isFinal"`
}

// Snapshot is a full point-in-time copy of the analysis categories.
// Category slices are nil for categories that had not been uploaded when
// the snapshot was saved.
type Snapshot struct {
	ID        string `json:"id,omitempty"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Headcount []Row  `json:"headcount,omitempty"`
	NHT       []Row  `json:"nht,omitempty"`
	Terms     []Row  `json:"terms,omitempty"`
}

// Rows returns the snapshot payload for one category.
func (s Snapshot) Rows(c Category) []Row {
	switch c {
	case CategoryHeadcount:
		return s.Headcount
	case CategoryNHT:
		return s.NHT
	case CategoryTerms:
		return s.Terms
	}
	return nil
}

// Mode selects between a saved monthly snapshot and the backend-computed
// year-to-date aggregate.
type Mode string

const (
	ModeMonth Mode = "month"
	ModeYTD   Mode = "ytd"
)

var monthNames = []string{
	"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English month name, or "" for out-of-range input.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m]
}
