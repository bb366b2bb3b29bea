package org

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/console-go/internal/api"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/domain/session"
)

// memStore is an in-memory session.Store.
type memStore struct {
	sess     session.Session
	uploaded []string
}

func (m *memStore) Get() session.Session        { return m.sess }
func (m *memStore) Put(s session.Session) error { m.sess = s; return nil }
func (m *memStore) Clear() error {
	m.sess = session.Session{State: session.Unauthenticated}
	return nil
}
func (m *memStore) MarkUploaded(c string) error {
	m.uploaded = append(m.uploaded, c)
	return nil
}
func (m *memStore) UploadedCategories() []string { return m.uploaded }

// recordingNotifier captures notifications per severity.
type recordingNotifier struct {
	successes, errs []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Info(msg string)    {}
func (n *recordingNotifier) Warning(msg string) {}
func (n *recordingNotifier) Error(msg string)   { n.errs = append(n.errs, msg) }

// fakeBackend implements Backend with pluggable behavior.
type fakeBackend struct {
	profile    company.Profile
	detailsErr error

	updateMsg string
	updateErr error
	updates   []*company.UpdateProfileRequest

	subs          []company.SubCompany
	subsParents   []string
	createdSubs   []*company.CreateSubCompanyRequest
	createdParent string

	assignMsg    string
	assignErr    error
	assignedSub  string
	assignedIDs  []string
	superUsers   []company.SuperUser
	superUserErr error
}

func (f *fakeBackend) CompanyDetails(ctx context.Context) (company.Profile, error) {
	return f.profile, f.detailsErr
}

func (f *fakeBackend) UpdateCompany(ctx context.Context, req *company.UpdateProfileRequest) (string, error) {
	f.updates = append(f.updates, req)
	return f.updateMsg, f.updateErr
}

func (f *fakeBackend) SubCompanies(ctx context.Context, parentCompanyID string) ([]company.SubCompany, error) {
	f.subsParents = append(f.subsParents, parentCompanyID)
	return f.subs, nil
}

func (f *fakeBackend) CreateSubCompany(ctx context.Context, parentCompanyID string, req *company.CreateSubCompanyRequest) (company.SubCompany, error) {
	f.createdParent = parentCompanyID
	f.createdSubs = append(f.createdSubs, req)
	return company.SubCompany{ID: "sub-1", Name: req.Name}, nil
}

func (f *fakeBackend) AssignSuperUsers(ctx context.Context, parentCompanyID, subCompanyID string, userIDs []string) (string, error) {
	f.assignedSub = subCompanyID
	f.assignedIDs = userIDs
	return f.assignMsg, f.assignErr
}

func (f *fakeBackend) SuperUsers(ctx context.Context, parentCompanyID string) ([]company.SuperUser, error) {
	return f.superUsers, f.superUserErr
}

func newTestService(backend *fakeBackend, parentID string) (*Service, *recordingNotifier) {
	store := &memStore{sess: session.Session{
		State:     session.Resolved,
		Token:     "tok",
		CompanyID: parentID,
	}}
	notify := &recordingNotifier{}
	return NewService(backend, store, notify), notify
}

func TestDetails_ReturnsProfile(t *testing.T) {
	backend := &fakeBackend{profile: company.Profile{ID: "acme-group", Name: "Acme Group"}}
	svc, _ := newTestService(backend, "acme-group")

	profile, err := svc.Details(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Acme Group", profile.Name)
}

func TestUpdate_ValidationNeverHitsBackend(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend, "acme-group")

	err := svc.Update(context.Background(), &company.UpdateProfileRequest{Name: " "})

	assert.Error(t, err)
	assert.Empty(t, backend.updates)
	assert.NotEmpty(t, notify.errs)
}

func TestUpdate_FallsBackToDefaultMessage(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend, "acme-group")

	require.NoError(t, svc.Update(context.Background(), &company.UpdateProfileRequest{Name: "Acme Group"}))

	assert.Contains(t, notify.successes, "Company updated successfully!")
}

func TestSubCompanies_AddressedThroughParent(t *testing.T) {
	backend := &fakeBackend{subs: []company.SubCompany{{ID: "acme-retail"}}}
	svc, _ := newTestService(backend, "acme-group")

	subs, err := svc.SubCompanies(context.Background())

	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.Equal(t, []string{"acme-group"}, backend.subsParents)
}

func TestSubCompanies_RequiresParentCompany(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend, "")

	_, err := svc.SubCompanies(context.Background())

	assert.ErrorIs(t, err, company.ErrNoParentCompany)
	assert.Empty(t, backend.subsParents)
	assert.NotEmpty(t, notify.errs)
}

func TestCreateSubCompany_ValidationNeverHitsBackend(t *testing.T) {
	backend := &fakeBackend{}
	svc, _ := newTestService(backend, "acme-group")

	_, err := svc.CreateSubCompany(context.Background(), &company.CreateSubCompanyRequest{})

	assert.Error(t, err)
	assert.Empty(t, backend.createdSubs)
}

func TestCreateSubCompany_Notifies(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend, "acme-group")

	created, err := svc.CreateSubCompany(context.Background(), &company.CreateSubCompanyRequest{Name: "Acme Energy"})

	require.NoError(t, err)
	assert.Equal(t, "sub-1", created.ID)
	assert.Equal(t, "acme-group", backend.createdParent)
	assert.Contains(t, notify.successes, "Sub-company created successfully!")
}

func TestAssignSuperUsers_RequiresUsers(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend, "acme-group")

	err := svc.AssignSuperUsers(context.Background(), "acme-retail", nil)

	assert.Error(t, err)
	assert.Empty(t, backend.assignedIDs)
	assert.NotEmpty(t, notify.errs)
}

func TestAssignSuperUsers_Notifies(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend, "acme-group")

	require.NoError(t, svc.AssignSuperUsers(context.Background(), "acme-retail", []string{"u-1", "u-2"}))

	assert.Equal(t, "acme-retail", backend.assignedSub)
	assert.Equal(t, []string{"u-1", "u-2"}, backend.assignedIDs)
	assert.Contains(t, notify.successes, "Superusers assigned successfully!")
}

func TestBackendFailure_PrefersServerMessage(t *testing.T) {
	backend := &fakeBackend{detailsErr: &api.ServerError{
		StatusCode: 500,
		Message:    "Aggregation store offline",
	}}
	svc, notify := newTestService(backend, "acme-group")

	_, err := svc.Details(context.Background())

	assert.Error(t, err)
	require.NotEmpty(t, notify.errs)
	assert.Equal(t, "Aggregation store offline", notify.errs[0])
}
