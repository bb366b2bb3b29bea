package signup

import (
	"context"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/worklens/console-go/internal/domain/company"
)

// Backend is the slice of the API client the signup flow needs.
type Backend interface {
	OnboardCompany(ctx context.Context, req *company.OnboardRequest) (company.OnboardResponse, error)
}

// Notifier is the transient-notification surface.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Service runs company onboarding: create the company plus its
// superuser account, then hand the user to the payment checkout.
type Service struct {
	backend Backend
	notify  Notifier

	// openURL is swappable for tests.
	openURL func(url string) error
}

func NewService(backend Backend, notify Notifier) *Service {
	return &Service{backend: backend, notify: notify, openURL: browser.OpenURL}
}

// Onboard validates and submits an onboarding request. On success the
// checkout URL is opened in the user's browser; a failure to open the
// browser is reported but does not fail the onboarding itself.
func (s *Service) Onboard(ctx context.Context, req *company.OnboardRequest) (company.OnboardResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		s.notify.Error(err.Error())
		return company.OnboardResponse{}, err
	}

	resp, err := s.backend.OnboardCompany(ctx, req)
	if err != nil {
		s.notify.Error("Company signup failed: " + err.Error())
		return company.OnboardResponse{}, err
	}

	msg := resp.Message
	if msg == "" {
		msg = "Company created successfully."
	}
	s.notify.Success(msg)

	if resp.CheckoutURL != "" {
		if err := s.openURL(resp.CheckoutURL); err != nil {
			log.Warn().Err(err).Str("url", resp.CheckoutURL).Msg("Failed to open checkout page")
			s.notify.Info("Complete your subscription at: " + resp.CheckoutURL)
		}
	}
	return resp, nil
}
