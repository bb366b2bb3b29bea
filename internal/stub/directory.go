package stub

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/pkg/validator"
)

// DirectoryHandler serves the employee directory and its metadata
// endpoints.
type DirectoryHandler struct {
	store *Store
}

func NewDirectoryHandler(store *Store) *DirectoryHandler {
	return &DirectoryHandler{store: store}
}

// List returns every directory account.
func (h *DirectoryHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.store.Directory()
	if users == nil {
		users = []company.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Create registers one account. New accounts start active.
func (h *DirectoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req company.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		validationErrors(w, err)
		return
	}

	created, ok := h.store.AddDirectoryUser(company.User{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ContactNumber: req.ContactNumber,
		AccessLevel:   req.AccessLevel,
		BusinessUnit:  req.BusinessUnit,
		Active:        true,
	})
	if !ok {
		messageError(w, http.StatusConflict, "A user with this email already exists")
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// Update replaces one account's details.
func (h *DirectoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req company.UserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		validationErrors(w, err)
		return
	}

	updated, ok := h.store.UpdateDirectoryUser(company.User{
		ID:            chi.URLParam(r, "id"),
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ContactNumber: req.ContactNumber,
		AccessLevel:   req.AccessLevel,
		BusinessUnit:  req.BusinessUnit,
	})
	if !ok {
		pascalError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Activate marks an account active.
func (h *DirectoryHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true, "User activated")
}

// Inactivate marks an account inactive.
func (h *DirectoryHandler) Inactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false, "User inactivated")
}

func (h *DirectoryHandler) setActive(w http.ResponseWriter, r *http.Request, active bool, msg string) {
	if !h.store.SetDirectoryUserActive(chi.URLParam(r, "id"), active) {
		pascalError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// UploadExcel bulk-creates accounts from a workbook. Rows without an
// email are skipped; duplicate emails are counted but not created.
func (h *DirectoryHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		messageError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		rawError(w, http.StatusUnsupportedMediaType, "only .xlsx uploads are supported by the development backend")
		return
	}

	rows, err := parseWorkbook(file)
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("Workbook parse failed")
		rawError(w, http.StatusBadRequest, "could not parse workbook: "+err.Error())
		return
	}

	var created, skipped int
	for _, row := range rows {
		email := rowString(row, "email")
		if email == "" {
			skipped++
			continue
		}
		_, ok := h.store.AddDirectoryUser(company.User{
			Email:        email,
			FirstName:    rowString(row, "first name"),
			LastName:     rowString(row, "last name"),
			AccessLevel:  rowString(row, "access level"),
			BusinessUnit: rowString(row, "business unit"),
			Active:       true,
		})
		if !ok {
			skipped++
			continue
		}
		created++
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("%d users imported, %d skipped", created, skipped),
		"created": created,
		"skipped": skipped,
	})
}

// Units lists the reporting units.
func (h *DirectoryHandler) Units(w http.ResponseWriter, r *http.Request) {
	units := h.store.Units()
	if units == nil {
		units = []company.BusinessUnit{}
	}
	writeJSON(w, http.StatusOK, units)
}

// AddUnit registers a reporting unit.
func (h *DirectoryHandler) AddUnit(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	unit, ok := h.store.AddUnit(name)
	if !ok {
		messageError(w, http.StatusConflict, "Business unit already exists")
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

// AccessLevels lists the assignable role names.
func (h *DirectoryHandler) AccessLevels(w http.ResponseWriter, r *http.Request) {
	levels := h.store.AccessLevels()
	if levels == nil {
		levels = []company.AccessLevel{}
	}
	writeJSON(w, http.StatusOK, levels)
}

// AddAccessLevel registers a role name.
func (h *DirectoryHandler) AddAccessLevel(w http.ResponseWriter, r *http.Request) {
	name, ok := decodeName(w, r)
	if !ok {
		return
	}
	level, ok := h.store.AddAccessLevel(name)
	if !ok {
		messageError(w, http.StatusConflict, "Access level already exists")
		return
	}
	writeJSON(w, http.StatusOK, level)
}

// decodeName reads a {"name": ...} body, writing the error response
// itself when the body is unusable.
func decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return "", false
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		fieldErrors(w, http.StatusBadRequest, map[string][]string{
			"name": {"name is required"},
		})
		return "", false
	}
	return name, true
}

// validationErrors renders a ValidationErrors as the per-field map
// shape; anything else falls back to a plain message.
func validationErrors(w http.ResponseWriter, err error) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		messageError(w, http.StatusBadRequest, err.Error())
		return
	}
	fields := make(map[string][]string, len(verrs))
	for _, verr := range verrs {
		fields[verr.Field] = append(fields[verr.Field], verr.Message)
	}
	fieldErrors(w, http.StatusBadRequest, fields)
}

// rowString reads one workbook cell by normalized header name.
func rowString(row map[string]interface{}, key string) string {
	for k, v := range row {
		if strings.Join(strings.Fields(strings.ToLower(k)), " ") != key {
			continue
		}
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
		return fmt.Sprint(v)
	}
	return ""
}
