package analysis

import (
	"github.com/goccy/go-json"
	"github.com/worklens/console-go/internal/pkg/validator"
)

// SaveSnapshotRequest is the body of POST /AnalysisHistory/save.
// Category fields are only set for categories that have been uploaded at
// least once; absent categories stay out of the JSON entirely, while a
// present-but-empty category is sent as an empty array. That distinction
// is why marshaling is hand-rolled: omitempty cannot tell nil from
// empty.
type SaveSnapshotRequest struct {
	IsFinal   bool  `json:"isFinal"`
	Year      int   `json:"year"`
	Month     int   `json:"month"`
	Headcount []Row `json:"headcount,omitempty"`
	NHT       []Row `json:"nht,omitempty"`
	Terms     []Row `json:"terms,omitempty"`
}

func (r *SaveSnapshotRequest) MarshalJSON() ([]byte, error) {
	payload := map[string]interface{}{
		"isFinal": r.IsFinal,
		"year":    r.Year,
		"month":   r.Month,
	}
	if r.Headcount != nil {
		payload["headcount"] = r.Headcount
	}
	if r.NHT != nil {
		payload["nht"] = r.NHT
	}
	if r.Terms != nil {
		payload["terms"] = r.Terms
	}
	return json.Marshal(payload)
}

func (r *SaveSnapshotRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Year == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year is required",
		})
	} else if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if r.Month == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if r.Headcount == nil && r.NHT == nil && r.Terms == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "categories",
			Message: "no analysis data has been uploaded yet",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SetRows assigns a category payload on the request.
func (r *SaveSnapshotRequest) SetRows(c Category, rows []Row) {
	// Present-but-empty categories are sent as an empty array, matching
	// the save-at-any-time contract: a category still loading is included
	// with whatever data is resident.
	if rows == nil {
		rows = []Row{}
	}
	switch c {
	case CategoryHeadcount:
		r.Headcount = rows
	case CategoryNHT:
		r.NHT = rows
	case CategoryTerms:
		r.Terms = rows
	}
}
