package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/worklens/console-go/internal/api"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/pkg/validator"
	"github.com/worklens/console-go/internal/service/ingest"
)

// Backend is the slice of the API client the directory needs.
type Backend interface {
	ListUsers(ctx context.Context) ([]company.User, error)
	CreateUser(ctx context.Context, req *company.UserRequest) (company.User, error)
	UpdateUser(ctx context.Context, req *company.UserRequest) (company.User, error)
	SetUserActive(ctx context.Context, id string, active bool) (string, error)
	UploadUsers(ctx context.Context, filename string, file io.Reader, size int64, progress api.ProgressFunc) error
	BusinessUnits(ctx context.Context) ([]company.BusinessUnit, error)
	AddBusinessUnit(ctx context.Context, name string) (company.BusinessUnit, error)
	AccessLevels(ctx context.Context) ([]company.AccessLevel, error)
	AddAccessLevel(ctx context.Context, name string) (company.AccessLevel, error)
}

// Notifier is the transient-notification surface.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Service manages the employee directory and its metadata: accounts,
// reporting units and access levels.
type Service struct {
	backend Backend
	notify  Notifier
}

func NewService(backend Backend, notify Notifier) *Service {
	return &Service{backend: backend, notify: notify}
}

// userSheetColumns are the header columns a bulk-import workbook must
// carry. Matching is case-insensitive and whitespace-tolerant.
var userSheetColumns = []string{"email", "first name", "access level"}

// Users lists the effective company's accounts.
func (s *Service) Users(ctx context.Context) ([]company.User, error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		s.fail("Failed to fetch users", err)
		return nil, err
	}
	return users, nil
}

// CreateUser validates and creates one account. Nothing is sent when
// validation fails.
func (s *Service) CreateUser(ctx context.Context, req *company.UserRequest) (company.User, error) {
	if err := req.Validate(); err != nil {
		s.notify.Error(err.Error())
		return company.User{}, err
	}
	created, err := s.backend.CreateUser(ctx, req)
	if err != nil {
		s.fail("Failed to create user", err)
		return company.User{}, err
	}
	s.notify.Success("User created successfully")
	return created, nil
}

// UpdateUser validates and replaces one account's details. The request
// must carry the account id.
func (s *Service) UpdateUser(ctx context.Context, req *company.UserRequest) (company.User, error) {
	if validator.IsEmpty(req.ID) {
		err := validator.ValidationErrors{{
			Field:   "id",
			Message: "a user id is required for updates",
		}}
		s.notify.Error(err.Error())
		return company.User{}, err
	}
	if err := req.Validate(); err != nil {
		s.notify.Error(err.Error())
		return company.User{}, err
	}
	updated, err := s.backend.UpdateUser(ctx, req)
	if err != nil {
		s.fail("Failed to update user", err)
		return company.User{}, err
	}
	s.notify.Success("User updated successfully")
	return updated, nil
}

// SetActive activates or deactivates one account.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	verb := "inactivate"
	if active {
		verb = "activate"
	}
	msg, err := s.backend.SetUserActive(ctx, id, active)
	if err != nil {
		s.fail("Failed to "+verb+" user", err)
		return err
	}
	if msg == "" {
		msg = "User " + verb + "d"
	}
	s.notify.Success(msg)
	return nil
}

// ImportUsers bulk-creates accounts from a workbook. The sheet is
// preflighted locally before any bytes go over the wire.
func (s *Service) ImportUsers(ctx context.Context, path string, progress api.ProgressFunc) error {
	if err := ingest.PreflightSheet(path, "Users", userSheetColumns); err != nil {
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

	if err := s.backend.UploadUsers(ctx, filepath.Base(path), f, info.Size(), progress); err != nil {
		s.fail("Failed to upload users file", err)
		return err
	}
	s.notify.Success("Users uploaded successfully")
	return nil
}

// Units lists the effective company's reporting units.
func (s *Service) Units(ctx context.Context) ([]company.BusinessUnit, error) {
	units, err := s.backend.BusinessUnits(ctx)
	if err != nil {
		s.fail("Failed to load business units", err)
		return nil, err
	}
	return units, nil
}

// AddUnit registers a reporting unit by name.
func (s *Service) AddUnit(ctx context.Context, name string) (company.BusinessUnit, error) {
	if validator.IsEmpty(name) {
		err := validator.ValidationErrors{{
			Field:   "name",
			Message: "unit name is required",
		}}
		s.notify.Error(err.Error())
		return company.BusinessUnit{}, err
	}
	unit, err := s.backend.AddBusinessUnit(ctx, name)
	if err != nil {
		s.fail("Failed to add business unit", err)
		return company.BusinessUnit{}, err
	}
	s.notify.Success("Business unit added")
	return unit, nil
}

// AccessLevels lists the assignable role names.
func (s *Service) AccessLevels(ctx context.Context) ([]company.AccessLevel, error) {
	levels, err := s.backend.AccessLevels(ctx)
	if err != nil {
		s.fail("Failed to load access levels", err)
		return nil, err
	}
	return levels, nil
}

// AddAccessLevel registers a role name.
func (s *Service) AddAccessLevel(ctx context.Context, name string) (company.AccessLevel, error) {
	if validator.IsEmpty(name) {
		err := validator.ValidationErrors{{
			Field:   "name",
			Message: "access level name is required",
		}}
		s.notify.Error(err.Error())
		return company.AccessLevel{}, err
	}
	level, err := s.backend.AddAccessLevel(ctx, name)
	if err != nil {
		s.fail("Failed to add access level", err)
		return company.AccessLevel{}, err
	}
	s.notify.Success("Access level added")
	return level, nil
}

// fail surfaces a backend failure unless it is the multi-assignment
// hint, which superusers resolve by choosing a company rather than by
// reading an error.
func (s *Service) fail(fallback string, err error) {
	msg := userMessage(err, fallback)
	if strings.Contains(msg, "multiple subcompany assignments") {
		return
	}
	s.notify.Error(msg)
}

func userMessage(err error, fallback string) string {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
