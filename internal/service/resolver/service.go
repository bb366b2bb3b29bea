package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/worklens/console-go/internal/api"
	"github.com/worklens/console-go/internal/domain/session"
	"github.com/worklens/console-go/internal/pkg/claims"
	"github.com/worklens/console-go/internal/pkg/validator"
)

// Backend is the slice of the API client the resolver needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (api.LoginResult, error)
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context, newPassword string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	UserAssignments(ctx context.Context, parentCompanyID, userID string) ([]session.CompanyAssignment, error)
}

// Notifier is the transient-notification surface (the console's
// equivalent of the web client's toasts).
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Outcome is where a resolver operation leaves the user: the session
// state plus the screen route the client should show next.
type Outcome struct {
	State session.State
	Route string
}

// Service drives the post-login access-resolution state machine.
type Service struct {
	backend Backend
	store   session.Store
	notify  Notifier
}

func NewService(backend Backend, store session.Store, notify Notifier) *Service {
	return &Service{backend: backend, store: store, notify: notify}
}

// SignIn authenticates and resolves the session as far as it can go
// without user input. It stops at ResetRequired, ChoosingCompany or
// ChoosingUnit when interaction is needed, otherwise lands on Resolved
// with the role's dashboard route.
func (s *Service) SignIn(ctx context.Context, email, password string) (Outcome, error) {
	if err := validateCredentials(email, password); err != nil {
		s.notify.Error(err.Error())
		return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, err
	}

	result, err := s.backend.Login(ctx, email, password)
	if err != nil {
		s.notify.Error(userMessage(err, "Login failed"))
		return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, err
	}

	sess := session.Session{
		State: session.Unauthenticated,
		Token: result.Token,
		Email: email,
	}

	if result.MustResetPassword {
		sess.State = session.ResetRequired
		sess.MustResetPassword = true
		if err := s.store.Put(sess); err != nil {
			return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, err
		}
		s.notify.Info("You must reset your password on first login.")
		return Outcome{State: session.ResetRequired, Route: session.RouteResetPassword}, nil
	}

	set := claims.Decode(result.Token)
	sess.Access = set.Access
	sess.CompanyID = set.CompanyID
	sess.UserID = set.UserID
	sess.PendingUnits = set.BusinessUnits

	// The assignment lookup below is authenticated, so the token must be
	// persisted before the side-query runs.
	if err := s.store.Put(sess); err != nil {
		return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, err
	}

	if session.NormalizeAccess(sess.Access) == "superuser" && sess.CompanyID != "" && sess.UserID != "" {
		assignments, err := s.backend.UserAssignments(ctx, sess.CompanyID, sess.UserID)
		switch {
		case err != nil:
			// Non-fatal enrichment: continue without a selected company.
			log.Warn().Err(err).Msg("Failed to check company assignments")
		case len(assignments) > 1:
			sess.AvailableCompanies = assignments
			sess.State = session.ChoosingCompany
			if err := s.store.Put(sess); err != nil {
				return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, err
			}
			s.notify.Info("Please select the company you want to manage in this session.")
			return Outcome{State: session.ChoosingCompany, Route: session.RouteChooseCompany}, nil
		case len(assignments) == 1:
			sess.SelectedCompanyID = assignments[0].CompanyID
			sess.SelectedCompanyName = assignments[0].CompanyName
		}
	}

	return s.resolveUnits(sess)
}

// resolveUnits finishes the flow once any company ambiguity is settled:
// it either stops at the unit chooser or applies the terminal role
// routing.
func (s *Service) resolveUnits(sess session.Session) (Outcome, error) {
	switch {
	case len(sess.PendingUnits) > 1:
		sess.State = session.ChoosingUnit
		if err := s.store.Put(sess); err != nil {
			return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, err
		}
		s.notify.Info("Please select the business unit you want to use for this session.")
		return Outcome{State: session.ChoosingUnit, Route: session.RouteChooseBusinessUnit}, nil
	case len(sess.PendingUnits) == 1:
		sess.BusinessUnit = sess.PendingUnits[0]
		sess.PendingUnits = nil
	default:
		sess.BusinessUnit = ""
	}

	return s.finish(sess)
}

func (s *Service) finish(sess session.Session) (Outcome, error) {
	if !sess.State.CanTransition(session.Resolved) {
		return Outcome{State: sess.State}, session.ErrInvalidTransition
	}
	sess.State = session.Resolved
	if err := s.store.Put(sess); err != nil {
		return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, err
	}
	s.notify.Success("User Login Successfully!")
	return Outcome{State: session.Resolved, Route: session.RouteForAccess(sess.Access)}, nil
}

// ResolveCompany applies an interactive company choice. The choice must
// be one of the candidates persisted at sign-in.
func (s *Service) ResolveCompany(companyID string) (Outcome, error) {
	sess := s.store.Get()
	if sess.State != session.ChoosingCompany {
		return Outcome{State: sess.State}, session.ErrNoPendingChoice
	}

	var chosen *session.CompanyAssignment
	for i := range sess.AvailableCompanies {
		if sess.AvailableCompanies[i].CompanyID == companyID {
			chosen = &sess.AvailableCompanies[i]
			break
		}
	}
	if chosen == nil {
		s.notify.Warning("Please select a company to continue.")
		return Outcome{State: sess.State, Route: session.RouteChooseCompany}, session.ErrNotCandidate
	}

	sess.SelectedCompanyID = chosen.CompanyID
	sess.SelectedCompanyName = chosen.CompanyName
	sess.AvailableCompanies = nil
	s.notify.Success(fmt.Sprintf("Welcome to %s!", chosen.CompanyName))

	return s.resolveUnits(sess)
}

// ResolveBusinessUnit applies an interactive unit choice.
func (s *Service) ResolveBusinessUnit(unit string) (Outcome, error) {
	sess := s.store.Get()
	if sess.State != session.ChoosingUnit {
		return Outcome{State: sess.State}, session.ErrNoPendingChoice
	}
	if !validator.IsInSlice(unit, sess.PendingUnits) {
		s.notify.Warning("Please select a business unit.")
		return Outcome{State: sess.State, Route: session.RouteChooseBusinessUnit}, session.ErrNotCandidate
	}

	sess.BusinessUnit = unit
	sess.PendingUnits = nil
	s.notify.Success(fmt.Sprintf("Welcome to %s Dashboard!", unit))

	return s.finish(sess)
}

// SignOut revokes the token best-effort and always clears local state.
func (s *Service) SignOut(ctx context.Context) Outcome {
	if s.store.Get().Authenticated() {
		if err := s.backend.Logout(ctx); err != nil {
			log.Warn().Err(err).Msg("Backend logout failed (continuing)")
		}
	}
	if err := s.store.Clear(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear session state")
	}
	s.notify.Success("Logged out successfully.")
	return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}
}

// ResetPassword completes the forced-reset flow. On success the session
// is cleared; the user signs in again with the new password.
func (s *Service) ResetPassword(ctx context.Context, newPassword, confirm string) (Outcome, error) {
	sess := s.store.Get()
	if !sess.Authenticated() {
		s.notify.Error("Authentication token missing. Please sign in again.")
		return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, session.ErrNotSignedIn
	}

	if err := validateNewPassword(newPassword, confirm); err != nil {
		s.notify.Error(err.Error())
		return Outcome{State: sess.State, Route: session.RouteResetPassword}, err
	}

	if err := s.backend.ResetPassword(ctx, newPassword); err != nil {
		s.notify.Error(userMessage(err, "Password reset failed."))
		return Outcome{State: sess.State, Route: session.RouteResetPassword}, err
	}

	if err := s.store.Clear(); err != nil {
		return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, err
	}
	s.notify.Success("Password updated successfully. Please sign in with your new password.")
	return Outcome{State: session.Unauthenticated, Route: session.RouteSignIn}, nil
}

// ForgotPassword requests a reset email.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if validator.IsEmpty(email) || !validator.IsValidEmail(email) {
		err := validator.ValidationErrors{{Field: "email", Message: "a valid email is required"}}
		s.notify.Error(err.Error())
		return err
	}
	msg, err := s.backend.ForgotPassword(ctx, email)
	if err != nil {
		s.notify.Error(userMessage(err, "Could not request a password reset."))
		return err
	}
	if msg == "" {
		msg = "If the email is registered, a reset link has been sent."
	}
	s.notify.Success(msg)
	return nil
}

func validateCredentials(email, password string) error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is required"})
	}
	if validator.IsEmpty(password) {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateNewPassword(newPassword, confirm string) error {
	var errs validator.ValidationErrors
	if len(newPassword) < 8 {
		errs = append(errs, validator.ValidationError{Field: "password", Message: "password must be at least 8 characters long"})
	}
	if newPassword != confirm {
		errs = append(errs, validator.ValidationError{Field: "confirm_password", Message: "password and confirmation do not match"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// userMessage prefers the backend's own message when one exists.
func userMessage(err error, fallback string) string {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	if errors.Is(err, session.ErrNoToken) {
		return "Authentication failed: no token received."
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
