// Package org manages the company profile, its sub-companies and the
// superusers assigned to them.
package org

import (
	"context"
	"errors"
	"strings"

	"github.com/worklens/console-go/internal/api"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/domain/session"
	"github.com/worklens/console-go/internal/pkg/validator"
)

// Backend is the slice of the API client the org manager needs.
type Backend interface {
	CompanyDetails(ctx context.Context) (company.Profile, error)
	UpdateCompany(ctx context.Context, req *company.UpdateProfileRequest) (string, error)
	SubCompanies(ctx context.Context, parentCompanyID string) ([]company.SubCompany, error)
	CreateSubCompany(ctx context.Context, parentCompanyID string, req *company.CreateSubCompanyRequest) (company.SubCompany, error)
	AssignSuperUsers(ctx context.Context, parentCompanyID, subCompanyID string, userIDs []string) (string, error)
	SuperUsers(ctx context.Context, parentCompanyID string) ([]company.SuperUser, error)
}

// Notifier is the transient-notification surface.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Service owns the effective-company record and the parent company's
// sub-company tree.
type Service struct {
	backend Backend
	store   session.Store
	notify  Notifier
}

func NewService(backend Backend, store session.Store, notify Notifier) *Service {
	return &Service{backend: backend, store: store, notify: notify}
}

// parentCompany returns the signed-in parent company id. Sub-company
// routes are always addressed through the parent, never the current
// selection.
func (s *Service) parentCompany() (string, error) {
	id := s.store.Get().CompanyID
	if id == "" {
		return "", company.ErrNoParentCompany
	}
	return id, nil
}

// Details fetches the effective company record.
func (s *Service) Details(ctx context.Context) (company.Profile, error) {
	profile, err := s.backend.CompanyDetails(ctx)
	if err != nil {
		s.fail("Failed to fetch company details", err)
		return company.Profile{}, err
	}
	return profile, nil
}

// Update validates and replaces the effective company record. Nothing
// is sent when validation fails.
func (s *Service) Update(ctx context.Context, req *company.UpdateProfileRequest) error {
	if err := req.Validate(); err != nil {
		s.notify.Error(err.Error())
		return err
	}
	msg, err := s.backend.UpdateCompany(ctx, req)
	if err != nil {
		s.fail("An error occurred while updating the company", err)
		return err
	}
	if msg == "" {
		msg = "Company updated successfully!"
	}
	s.notify.Success(msg)
	return nil
}

// SubCompanies lists the children of the signed-in parent company.
func (s *Service) SubCompanies(ctx context.Context) ([]company.SubCompany, error) {
	parentID, err := s.parentCompany()
	if err != nil {
		s.notify.Error(err.Error())
		return nil, err
	}
	subs, err := s.backend.SubCompanies(ctx, parentID)
	if err != nil {
		s.fail("Failed to fetch sub-companies", err)
		return nil, err
	}
	return subs, nil
}

// CreateSubCompany validates and registers a new child company.
func (s *Service) CreateSubCompany(ctx context.Context, req *company.CreateSubCompanyRequest) (company.SubCompany, error) {
	parentID, err := s.parentCompany()
	if err != nil {
		s.notify.Error(err.Error())
		return company.SubCompany{}, err
	}
	if err := req.Validate(); err != nil {
		s.notify.Error(err.Error())
		return company.SubCompany{}, err
	}
	created, err := s.backend.CreateSubCompany(ctx, parentID, req)
	if err != nil {
		s.fail("Failed to create sub-company", err)
		return company.SubCompany{}, err
	}
	s.notify.Success("Sub-company created successfully!")
	return created, nil
}

// AssignSuperUsers grants parent-company superusers access to one
// sub-company.
func (s *Service) AssignSuperUsers(ctx context.Context, subCompanyID string, userIDs []string) error {
	parentID, err := s.parentCompany()
	if err != nil {
		s.notify.Error(err.Error())
		return err
	}
	if len(userIDs) == 0 {
		verr := validator.ValidationErrors{{
			Field:   "userIds",
			Message: "at least one user id is required",
		}}
		s.notify.Error(verr.Error())
		return verr
	}
	msg, err := s.backend.AssignSuperUsers(ctx, parentID, subCompanyID, userIDs)
	if err != nil {
		s.fail("Failed to assign superusers", err)
		return err
	}
	if msg == "" {
		msg = "Superusers assigned successfully!"
	}
	s.notify.Success(msg)
	return nil
}

// SuperUsers lists the parent company's superusers, typically to pick
// assignment candidates from.
func (s *Service) SuperUsers(ctx context.Context) ([]company.SuperUser, error) {
	parentID, err := s.parentCompany()
	if err != nil {
		s.notify.Error(err.Error())
		return nil, err
	}
	supers, err := s.backend.SuperUsers(ctx, parentID)
	if err != nil {
		s.fail("Failed to fetch superusers", err)
		return nil, err
	}
	return supers, nil
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
