package resolver

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/console-go/internal/api"
	"github.com/worklens/console-go/internal/domain/session"
)

// memStore is an in-memory session.Store.
type memStore struct {
	sess     session.Session
	uploaded []string
}

func newMemStore() *memStore {
	return &memStore{sess: session.Session{State: session.Unauthenticated}}
}

func (m *memStore) Get() session.Session        { return m.sess }
func (m *memStore) Put(s session.Session) error { m.sess = s; return nil }
func (m *memStore) Clear() error {
	m.sess = session.Session{State: session.Unauthenticated}
	m.uploaded = nil
	return nil
}
func (m *memStore) MarkUploaded(c string) error {
	m.uploaded = append(m.uploaded, c)
	return nil
}
func (m *memStore) UploadedCategories() []string { return m.uploaded }

// recordingNotifier captures notifications per severity.
type recordingNotifier struct {
	successes, infos, warnings, errs []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Info(msg string)    { n.infos = append(n.infos, msg) }
func (n *recordingNotifier) Warning(msg string) { n.warnings = append(n.warnings, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errs = append(n.errs, msg) }

// fakeBackend implements Backend with pluggable behavior.
type fakeBackend struct {
	loginResult       api.LoginResult
	loginErr          error
	assignments       []session.CompanyAssignment
	assignmentsErr    error
	assignmentsCalled bool
	logoutErr         error
	logoutCalled      bool
	resetErr          error
	forgotMessage     string
	forgotErr         error
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (api.LoginResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeBackend) Logout(ctx context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}

func (f *fakeBackend) ResetPassword(ctx context.Context, newPassword string) error {
	return f.resetErr
}

func (f *fakeBackend) ForgotPassword(ctx context.Context, email string) (string, error) {
	return f.forgotMessage, f.forgotErr
}

func (f *fakeBackend) UserAssignments(ctx context.Context, parentCompanyID, userID string) ([]session.CompanyAssignment, error) {
	f.assignmentsCalled = true
	return f.assignments, f.assignmentsErr
}

// makeToken builds an unsigned token carrying the given claims.
func makeToken(t *testing.T, claims map[string]interface{}) string {
	encode := func(v interface{}) string {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(raw)
	}
	return encode(map[string]string{"alg": "none", "typ": "JWT"}) + "." + encode(claims) + "."
}

func newTestService(backend *fakeBackend) (*Service, *memStore, *recordingNotifier) {
	store := newMemStore()
	notify := &recordingNotifier{}
	return NewService(backend, store, notify), store, notify
}

func TestSignIn_SingleUnitResolvesToRoleDashboard(t *testing.T) {
	backend := &fakeBackend{loginResult: api.LoginResult{
		Token: makeToken(t, map[string]interface{}{
			"access":        "hr",
			"companyId":     "acme",
			"userId":        "u-hr",
			"businessUnits": []string{"Retail"},
		}),
	}}
	svc, store, notify := newTestService(backend)

	outcome, err := svc.SignIn(context.Background(), "hr@worklens.dev", "password123")

	require.NoError(t, err)
	assert.Equal(t, session.Resolved, outcome.State)
	assert.Equal(t, session.RouteCRMDashboard, outcome.Route)

	sess := store.Get()
	assert.Equal(t, session.Resolved, sess.State)
	assert.Equal(t, "Retail", sess.BusinessUnit)
	assert.Empty(t, sess.PendingUnits)
	assert.NotEmpty(t, notify.successes)
}

func TestSignIn_NoUnitsResolvesWithEmptyUnit(t *testing.T) {
	backend := &fakeBackend{loginResult: api.LoginResult{
		Token: makeToken(t, map[string]interface{}{"access": "admin"}),
	}}
	svc, store, _ := newTestService(backend)

	outcome, err := svc.SignIn(context.Background(), "admin@worklens.dev", "pw")

	require.NoError(t, err)
	assert.Equal(t, session.Resolved, outcome.State)
	assert.Equal(t, session.RouteEcommerceDashboard, outcome.Route)
	assert.Equal(t, "", store.Get().BusinessUnit)
}

func TestSignIn_MultipleUnitsStopsAtChooser(t *testing.T) {
	backend := &fakeBackend{loginResult: api.LoginResult{
		Token: makeToken(t, map[string]interface{}{
			"access":        "ceo",
			"businessUnits": []string{"Retail", "Logistics", "Corporate"},
		}),
	}}
	svc, store, _ := newTestService(backend)

	outcome, err := svc.SignIn(context.Background(), "ceo@worklens.dev", "pw")

	require.NoError(t, err)
	assert.Equal(t, session.ChoosingUnit, outcome.State)
	assert.Equal(t, session.RouteChooseBusinessUnit, outcome.Route)
	assert.Equal(t, []string{"Retail", "Logistics", "Corporate"}, store.Get().PendingUnits)
	assert.Equal(t, "", store.Get().BusinessUnit)
}

func TestSignIn_MustResetPassword(t *testing.T) {
	backend := &fakeBackend{loginResult: api.LoginResult{Token: "tok", MustResetPassword: true}}
	svc, store, _ := newTestService(backend)

	outcome, err := svc.SignIn(context.Background(), "new@worklens.dev", "changeme")

	require.NoError(t, err)
	assert.Equal(t, session.ResetRequired, outcome.State)
	assert.Equal(t, session.RouteResetPassword, outcome.Route)
	// The token must be persisted so reset-password can authenticate.
	assert.True(t, store.Get().Authenticated())
	assert.True(t, store.Get().MustResetPassword)
}

func TestSignIn_BadCredentials(t *testing.T) {
	loginErr := &api.ServerError{StatusCode: 401, Message: "Invalid email or password."}
	backend := &fakeBackend{loginErr: loginErr}
	svc, store, notify := newTestService(backend)

	outcome, err := svc.SignIn(context.Background(), "x@worklens.dev", "wrong")

	assert.ErrorIs(t, err, loginErr)
	assert.Equal(t, session.Unauthenticated, outcome.State)
	assert.False(t, store.Get().Authenticated())
	require.NotEmpty(t, notify.errs)
	assert.Equal(t, "Invalid email or password.", notify.errs[0])
}

func TestSignIn_EmptyCredentialsNeverHitBackend(t *testing.T) {
	backend := &fakeBackend{loginErr: errors.New("should not be called")}
	svc, _, notify := newTestService(backend)

	_, err := svc.SignIn(context.Background(), "", "")

	assert.Error(t, err)
	assert.NotEmpty(t, notify.errs)
}

func TestSignIn_SuperuserMultipleCompaniesStopsAtChooser(t *testing.T) {
	backend := &fakeBackend{
		loginResult: api.LoginResult{Token: makeToken(t, map[string]interface{}{
			"access":        "superuser",
			"companyId":     "acme-group",
			"userId":        "u-super",
			"businessUnits": []string{"Retail", "Logistics"},
		})},
		assignments: []session.CompanyAssignment{
			{CompanyID: "acme-retail", CompanyName: "Acme Retail"},
			{CompanyID: "acme-logistics", CompanyName: "Acme Logistics"},
		},
	}
	svc, store, _ := newTestService(backend)

	outcome, err := svc.SignIn(context.Background(), "super@worklens.dev", "pw")

	require.NoError(t, err)
	assert.Equal(t, session.ChoosingCompany, outcome.State)

	sess := store.Get()
	assert.Len(t, sess.AvailableCompanies, 2)
	// Units must already be persisted so the company step can chain into
	// the unit step.
	assert.Equal(t, []string{"Retail", "Logistics"}, sess.PendingUnits)
}

func TestSignIn_SuperuserSingleCompanyAutoSelects(t *testing.T) {
	backend := &fakeBackend{
		loginResult: api.LoginResult{Token: makeToken(t, map[string]interface{}{
			"access":    "superuser",
			"companyId": "acme-group",
			"userId":    "u-super",
		})},
		assignments: []session.CompanyAssignment{
			{CompanyID: "acme-retail", CompanyName: "Acme Retail"},
		},
	}
	svc, store, _ := newTestService(backend)

	outcome, err := svc.SignIn(context.Background(), "super@worklens.dev", "pw")

	require.NoError(t, err)
	assert.Equal(t, session.Resolved, outcome.State)
	assert.Equal(t, session.RouteAgencyDashboard, outcome.Route)
	assert.Equal(t, "acme-retail", store.Get().SelectedCompanyID)
	assert.Empty(t, store.Get().AvailableCompanies)
}

func TestSignIn_AssignmentLookupFailureIsNonFatal(t *testing.T) {
	backend := &fakeBackend{
		loginResult: api.LoginResult{Token: makeToken(t, map[string]interface{}{
			"access":    "superuser",
			"companyId": "acme-group",
			"userId":    "u-super",
		})},
		assignmentsErr: errors.New("boom"),
	}
	svc, store, _ := newTestService(backend)

	outcome, err := svc.SignIn(context.Background(), "super@worklens.dev", "pw")

	require.NoError(t, err)
	assert.Equal(t, session.Resolved, outcome.State)
	assert.Equal(t, "", store.Get().SelectedCompanyID)
}

func TestSignIn_NonSuperuserSkipsAssignmentLookup(t *testing.T) {
	backend := &fakeBackend{loginResult: api.LoginResult{
		Token: makeToken(t, map[string]interface{}{
			"access":    "hr",
			"companyId": "acme",
			"userId":    "u-hr",
		}),
	}}
	svc, _, _ := newTestService(backend)

	_, err := svc.SignIn(context.Background(), "hr@worklens.dev", "pw")

	require.NoError(t, err)
	assert.False(t, backend.assignmentsCalled)
}

func TestResolveCompany_ChainsIntoUnitChooser(t *testing.T) {
	backend := &fakeBackend{}
	svc, store, _ := newTestService(backend)
	require.NoError(t, store.Put(session.Session{
		State:  session.ChoosingCompany,
		Token:  "tok",
		Access: "superuser",
		AvailableCompanies: []session.CompanyAssignment{
			{CompanyID: "acme-retail", CompanyName: "Acme Retail"},
			{CompanyID: "acme-logistics", CompanyName: "Acme Logistics"},
		},
		PendingUnits: []string{"Retail", "Logistics"},
	}))

	outcome, err := svc.ResolveCompany("acme-retail")

	require.NoError(t, err)
	assert.Equal(t, session.ChoosingUnit, outcome.State)
	sess := store.Get()
	assert.Equal(t, "acme-retail", sess.SelectedCompanyID)
	assert.Empty(t, sess.AvailableCompanies)
}

func TestResolveCompany_SingleUnitAutoResolves(t *testing.T) {
	backend := &fakeBackend{}
	svc, store, _ := newTestService(backend)
	require.NoError(t, store.Put(session.Session{
		State:  session.ChoosingCompany,
		Token:  "tok",
		Access: "superuser",
		AvailableCompanies: []session.CompanyAssignment{
			{CompanyID: "acme-retail", CompanyName: "Acme Retail"},
		},
		PendingUnits: []string{"Retail"},
	}))

	outcome, err := svc.ResolveCompany("acme-retail")

	require.NoError(t, err)
	assert.Equal(t, session.Resolved, outcome.State)
	assert.Equal(t, session.RouteAgencyDashboard, outcome.Route)
	assert.Equal(t, "Retail", store.Get().BusinessUnit)
}

func TestResolveCompany_RejectsNonCandidate(t *testing.T) {
	backend := &fakeBackend{}
	svc, store, notify := newTestService(backend)
	require.NoError(t, store.Put(session.Session{
		State: session.ChoosingCompany,
		Token: "tok",
		AvailableCompanies: []session.CompanyAssignment{
			{CompanyID: "acme-retail", CompanyName: "Acme Retail"},
		},
	}))

	_, err := svc.ResolveCompany("not-mine")

	assert.ErrorIs(t, err, session.ErrNotCandidate)
	assert.Equal(t, session.ChoosingCompany, store.Get().State)
	assert.NotEmpty(t, notify.warnings)
}

func TestResolveCompany_RequiresPendingChoice(t *testing.T) {
	backend := &fakeBackend{}
	svc, _, _ := newTestService(backend)

	_, err := svc.ResolveCompany("acme-retail")

	assert.ErrorIs(t, err, session.ErrNoPendingChoice)
}

func TestResolveBusinessUnit(t *testing.T) {
	backend := &fakeBackend{}
	svc, store, _ := newTestService(backend)
	require.NoError(t, store.Put(session.Session{
		State:        session.ChoosingUnit,
		Token:        "tok",
		Access:       "team manager",
		PendingUnits: []string{"Retail", "Logistics"},
	}))

	outcome, err := svc.ResolveBusinessUnit("Logistics")

	require.NoError(t, err)
	assert.Equal(t, session.Resolved, outcome.State)
	assert.Equal(t, session.RouteSaaSDashboard, outcome.Route)
	sess := store.Get()
	assert.Equal(t, "Logistics", sess.BusinessUnit)
	assert.Empty(t, sess.PendingUnits)
}

func TestResolveBusinessUnit_RejectsNonCandidate(t *testing.T) {
	backend := &fakeBackend{}
	svc, store, _ := newTestService(backend)
	require.NoError(t, store.Put(session.Session{
		State:        session.ChoosingUnit,
		Token:        "tok",
		PendingUnits: []string{"Retail"},
	}))

	_, err := svc.ResolveBusinessUnit("Corporate")

	assert.ErrorIs(t, err, session.ErrNotCandidate)
	assert.Equal(t, session.ChoosingUnit, store.Get().State)
}

func TestSignOut_AlwaysClearsLocalState(t *testing.T) {
	backend := &fakeBackend{logoutErr: errors.New("backend down")}
	svc, store, _ := newTestService(backend)
	require.NoError(t, store.Put(session.Session{State: session.Resolved, Token: "tok"}))
	require.NoError(t, store.MarkUploaded("headcount"))

	outcome := svc.SignOut(context.Background())

	assert.True(t, backend.logoutCalled)
	assert.Equal(t, session.Unauthenticated, outcome.State)
	assert.False(t, store.Get().Authenticated())
	assert.Empty(t, store.UploadedCategories())
}

func TestSignOut_SkipsRevokeWhenNotSignedIn(t *testing.T) {
	backend := &fakeBackend{}
	svc, _, _ := newTestService(backend)

	svc.SignOut(context.Background())

	assert.False(t, backend.logoutCalled)
}

func TestResetPassword_Success(t *testing.T) {
	backend := &fakeBackend{}
	svc, store, notify := newTestService(backend)
	require.NoError(t, store.Put(session.Session{State: session.ResetRequired, Token: "tok"}))

	outcome, err := svc.ResetPassword(context.Background(), "newpassword1", "newpassword1")

	require.NoError(t, err)
	assert.Equal(t, session.Unauthenticated, outcome.State)
	assert.False(t, store.Get().Authenticated())
	assert.NotEmpty(t, notify.successes)
}

func TestResetPassword_MismatchKeepsState(t *testing.T) {
	backend := &fakeBackend{}
	svc, store, _ := newTestService(backend)
	require.NoError(t, store.Put(session.Session{State: session.ResetRequired, Token: "tok"}))

	_, err := svc.ResetPassword(context.Background(), "newpassword1", "different")

	assert.Error(t, err)
	assert.Equal(t, session.ResetRequired, store.Get().State)
	assert.True(t, store.Get().Authenticated())
}

func TestResetPassword_RequiresToken(t *testing.T) {
	backend := &fakeBackend{}
	svc, _, _ := newTestService(backend)

	_, err := svc.ResetPassword(context.Background(), "newpassword1", "newpassword1")

	assert.ErrorIs(t, err, session.ErrNotSignedIn)
}

func TestForgotPassword(t *testing.T) {
	backend := &fakeBackend{forgotMessage: "Check your inbox."}
	svc, _, notify := newTestService(backend)

	require.NoError(t, svc.ForgotPassword(context.Background(), "hr@worklens.dev"))
	assert.Equal(t, []string{"Check your inbox."}, notify.successes)

	assert.Error(t, svc.ForgotPassword(context.Background(), "not-an-email"))
}
