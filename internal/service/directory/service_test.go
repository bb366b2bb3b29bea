package directory

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/console-go/internal/api"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/xuri/excelize/v2"
)

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
	users   []company.User
	listErr error

	created   []*company.UserRequest
	createErr error
	updated   []*company.UserRequest
	updateErr error

	activeCalls []string
	activeMsg   string
	activeErr   error

	uploadCalled bool
	uploadErr    error

	units      []company.BusinessUnit
	addedUnits []string
	levels     []company.AccessLevel
	addedLevel []string
}

func (f *fakeBackend) ListUsers(ctx context.Context) ([]company.User, error) {
	return f.users, f.listErr
}

func (f *fakeBackend) CreateUser(ctx context.Context, req *company.UserRequest) (company.User, error) {
	f.created = append(f.created, req)
	return company.User{ID: "usr-1", Email: req.Email, Active: true}, f.createErr
}

func (f *fakeBackend) UpdateUser(ctx context.Context, req *company.UserRequest) (company.User, error) {
	f.updated = append(f.updated, req)
	return company.User{ID: req.ID, Email: req.Email}, f.updateErr
}

func (f *fakeBackend) SetUserActive(ctx context.Context, id string, active bool) (string, error) {
	f.activeCalls = append(f.activeCalls, id)
	return f.activeMsg, f.activeErr
}

func (f *fakeBackend) UploadUsers(ctx context.Context, filename string, file io.Reader, size int64, progress api.ProgressFunc) error {
	f.uploadCalled = true
	return f.uploadErr
}

func (f *fakeBackend) BusinessUnits(ctx context.Context) ([]company.BusinessUnit, error) {
	return f.units, nil
}

func (f *fakeBackend) AddBusinessUnit(ctx context.Context, name string) (company.BusinessUnit, error) {
	f.addedUnits = append(f.addedUnits, name)
	return company.BusinessUnit{ID: "bu-1", Name: name}, nil
}

func (f *fakeBackend) AccessLevels(ctx context.Context) ([]company.AccessLevel, error) {
	return f.levels, nil
}

func (f *fakeBackend) AddAccessLevel(ctx context.Context, name string) (company.AccessLevel, error) {
	f.addedLevel = append(f.addedLevel, name)
	return company.AccessLevel{ID: "al-1", Name: name}, nil
}

func newTestService(backend *fakeBackend) (*Service, *recordingNotifier) {
	notify := &recordingNotifier{}
	return NewService(backend, notify), notify
}

// writeWorkbook saves an .xlsx with the given header row and one data
// row.
func writeWorkbook(t *testing.T, headers []string) string {
	t.Helper()
	wb := excelize.NewFile()
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, wb.SetCellValue("Sheet1", cell, h))
	}
	require.NoError(t, wb.SetCellValue("Sheet1", "A2", "dana@worklens.dev"))
	path := filepath.Join(t.TempDir(), "users.xlsx")
	require.NoError(t, wb.SaveAs(path))
	return path
}

func TestCreateUser_ValidationNeverHitsBackend(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend)

	_, err := svc.CreateUser(context.Background(), &company.UserRequest{
		Email:     "dana@worklens.dev",
		FirstName: "Dana",
		// Access level missing.
	})

	assert.Error(t, err)
	assert.Empty(t, backend.created)
	assert.NotEmpty(t, notify.errs)
}

func TestCreateUser_Notifies(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend)

	created, err := svc.CreateUser(context.Background(), &company.UserRequest{
		Email:       "dana@worklens.dev",
		FirstName:   "Dana",
		AccessLevel: "hr",
	})

	require.NoError(t, err)
	assert.Equal(t, "usr-1", created.ID)
	require.Len(t, backend.created, 1)
	assert.Contains(t, notify.successes, "User created successfully")
}

func TestUpdateUser_RequiresID(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend)

	_, err := svc.UpdateUser(context.Background(), &company.UserRequest{
		Email:       "dana@worklens.dev",
		FirstName:   "Dana",
		AccessLevel: "hr",
	})

	assert.Error(t, err)
	assert.Empty(t, backend.updated)
	assert.NotEmpty(t, notify.errs)
}

func TestSetActive_PrefersBackendMessage(t *testing.T) {
	backend := &fakeBackend{activeMsg: "User activated"}
	svc, notify := newTestService(backend)

	require.NoError(t, svc.SetActive(context.Background(), "usr-1", true))

	assert.Equal(t, []string{"usr-1"}, backend.activeCalls)
	assert.Contains(t, notify.successes, "User activated")
}

func TestSetActive_FallsBackToDefaultMessage(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend)

	require.NoError(t, svc.SetActive(context.Background(), "usr-1", false))

	assert.Contains(t, notify.successes, "User inactivated")
}

func TestImportUsers_PreflightRejectsBeforeUpload(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend)
	path := writeWorkbook(t, []string{"email", "first name"}) // access level missing

	err := svc.ImportUsers(context.Background(), path, nil)

	assert.Error(t, err)
	assert.False(t, backend.uploadCalled)
	require.NotEmpty(t, notify.errs)
	assert.Contains(t, notify.errs[0], "access level")
}

func TestImportUsers_UploadsValidWorkbook(t *testing.T) {
	backend := &fakeBackend{}
	svc, notify := newTestService(backend)
	path := writeWorkbook(t, []string{"Email", "First Name", "Access Level", "Business Unit"})

	require.NoError(t, svc.ImportUsers(context.Background(), path, nil))

	assert.True(t, backend.uploadCalled)
	assert.Contains(t, notify.successes, "Users uploaded successfully")
}

func TestAddUnit_RequiresName(t *testing.T) {
	backend := &fakeBackend{}
	svc, _ := newTestService(backend)

	_, err := svc.AddUnit(context.Background(), "  ")

	assert.Error(t, err)
	assert.Empty(t, backend.addedUnits)
}

func TestBackendFailure_SuppressesMultiAssignmentHint(t *testing.T) {
	backend := &fakeBackend{listErr: &api.ServerError{
		StatusCode: 400,
		Message:    "user has multiple subcompany assignments, select a company first",
	}}
	svc, notify := newTestService(backend)

	_, err := svc.Users(context.Background())

	assert.Error(t, err)
	// Superusers resolve this by choosing a company, not by reading an
	// error notification.
	assert.Empty(t, notify.errs)
}

func TestBackendFailure_SurfacesOrdinaryErrors(t *testing.T) {
	backend := &fakeBackend{listErr: errors.New("backend unreachable")}
	svc, notify := newTestService(backend)

	_, err := svc.Users(context.Background())

	assert.Error(t, err)
	require.NotEmpty(t, notify.errs)
	assert.Contains(t, notify.errs[0], "backend unreachable")
}
