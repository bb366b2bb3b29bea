package statefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"
	"github.com/worklens/console-go/internal/domain/session"
)

// Store persists the session and upload markers to a JSON file, the
// console's stand-in for the browser's local storage. Writes go through
// a temp file + rename so a crash never leaves a torn state file.
type Store struct {
	path string

	mu    sync.Mutex
	state persistedState
}

type persistedState struct {
	Session       session.Session `json:"session"`
	UploadedFiles []string        `json:"uploadedFiles,omitempty"`
}

var _ session.Store = (*Store)(nil)

// New opens the store at path, loading existing state if present. A
// missing file yields a fresh unauthenticated session.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	s.state.Session.State = session.Unauthenticated

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", path, err)
	}
	if s.state.Session.State == "" {
		s.state.Session.State = session.Unauthenticated
	}
	return s, nil
}

func (s *Store) Get() session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Session
}

func (s *Store) Put(sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session = sess
	return s.flush()
}

// Clear wipes the session and the upload markers.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = persistedState{}
	s.state.Session.State = session.Unauthenticated
	return s.flush()
}

func (s *Store) MarkUploaded(category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.state.UploadedFiles {
		if c == category {
			return nil
		}
	}
	s.state.UploadedFiles = append(s.state.UploadedFiles, category)
	return s.flush()
}

func (s *Store) UploadedCategories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.state.UploadedFiles))
	copy(out, s.state.UploadedFiles)
	return out
}

// Token returns the current bearer token, "" when signed out.
func (s *Store) Token() string {
	return s.Get().Token
}

// SelectedCompanyID returns the resolved company selection, "" when the
// user has none (non-superuser or single assignment auto-applied).
func (s *Store) SelectedCompanyID() string {
	return s.Get().SelectedCompanyID
}

func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
