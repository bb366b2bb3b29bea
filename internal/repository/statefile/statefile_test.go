package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklens/console-go/internal/domain/session"
)

func newTestStore(t *testing.T) (*Store, string) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := New(path)
	require.NoError(t, err)
	return store, path
}

func TestNew_MissingFileYieldsFreshSession(t *testing.T) {
	store, _ := newTestStore(t)

	sess := store.Get()

	assert.Equal(t, session.Unauthenticated, sess.State)
	assert.False(t, sess.Authenticated())
}

func TestPut_RoundTrip(t *testing.T) {
	store, path := newTestStore(t)

	sess := session.Session{
		State:        session.ChoosingUnit,
		Token:        "tok-123",
		Email:        "hr@worklens.dev",
		Access:       "hr",
		PendingUnits: []string{"Retail", "Logistics"},
		AvailableCompanies: []session.CompanyAssignment{
			{CompanyID: "acme-retail", CompanyName: "Acme Retail"},
		},
	}
	require.NoError(t, store.Put(sess))
	require.NoError(t, store.MarkUploaded("headcount"))

	// Reopen from disk.
	reloaded, err := New(path)
	require.NoError(t, err)

	got := reloaded.Get()
	assert.Equal(t, sess.State, got.State)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, sess.Email, got.Email)
	assert.Equal(t, sess.PendingUnits, got.PendingUnits)
	assert.Equal(t, sess.AvailableCompanies, got.AvailableCompanies)
	assert.Equal(t, []string{"headcount"}, reloaded.UploadedCategories())
}

func TestMarkUploaded_Dedupes(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.MarkUploaded("headcount"))
	require.NoError(t, store.MarkUploaded("terms"))
	require.NoError(t, store.MarkUploaded("headcount"))

	assert.Equal(t, []string{"headcount", "terms"}, store.UploadedCategories())
}

func TestClear_WipesSessionAndMarkers(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Put(session.Session{State: session.Resolved, Token: "tok"}))
	require.NoError(t, store.MarkUploaded("nht"))

	require.NoError(t, store.Clear())

	assert.Equal(t, session.Unauthenticated, store.Get().State)
	assert.Empty(t, store.UploadedCategories())
	assert.Equal(t, "", store.Token())

	// The cleared state survives a reload.
	reloaded, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, session.Unauthenticated, reloaded.Get().State)
	assert.Empty(t, reloaded.UploadedCategories())
}

func TestNew_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := New(path)

	assert.Error(t, err)
}

func TestSessionSourceAccessors(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.Put(session.Session{
		State:             session.Resolved,
		Token:             "tok-9",
		SelectedCompanyID: "acme-retail",
	}))

	assert.Equal(t, "tok-9", store.Token())
	assert.Equal(t, "acme-retail", store.SelectedCompanyID())
}
