package stub

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/worklens/console-go/internal/domain/analysis"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/domain/session"
	"golang.org/x/crypto/bcrypt"
)

// UnitClaimShape selects how a user's business units are encoded in
// their token, mirroring the shapes real backend builds have emitted.
type UnitClaimShape int

const (
	// UnitsAsArray emits "businessUnits": ["a", "b"].
	UnitsAsArray UnitClaimShape = iota
	// UnitsAsCommaString emits "businessUnits": "a,b".
	UnitsAsCommaString
	// UnitsAsURIKey emits the units under a fully-qualified claim URI.
	UnitsAsURIKey
)

// User is a development account.
type User struct {
	Email             string
	Password          string
	Access            string
	CompanyID         string
	UserID            string
	BusinessUnits     []string
	UnitShape         UnitClaimShape
	MustResetPassword bool

	passwordHash []byte
}

// Store is the stub's in-memory state. Everything resets on restart,
// which is the point of a development backend.
type Store struct {
	mu          sync.Mutex
	users       map[string]*User
	revoked     map[string]bool
	assignments map[string][]session.CompanyAssignment
	categories  map[analysis.Category][]analysis.Row
	snapshots   []analysis.Snapshot
	refs        []analysis.SnapshotRef
	nextID      int

	// Company metadata. The stub serves one tenant, so everything is
	// kept flat rather than keyed by company.
	profile      company.Profile
	subCompanies []company.SubCompany
	subSupers    map[string][]string
	directory    []company.User
	units        []company.BusinessUnit
	accessLevels []company.AccessLevel
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]*User),
		revoked:     make(map[string]bool),
		assignments: make(map[string][]session.CompanyAssignment),
		categories:  make(map[analysis.Category][]analysis.Row),
		subSupers:   make(map[string][]string),
		nextID:      1,
	}
}

// AddUser registers a development account, hashing its password.
func (s *Store) AddUser(u User) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", u.Email, err)
	}
	u.passwordHash = hash
	u.Password = ""

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Email] = &u
	return nil
}

// Authenticate checks credentials and returns the matching user.
func (s *Store) Authenticate(email, password string) (*User, bool) {
	s.mu.Lock()
	u, ok := s.users[email]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)) != nil {
		return nil, false
	}
	return u, true
}

// SetPassword replaces a user's password and clears the forced-reset
// flag.
func (s *Store) SetPassword(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return fmt.Errorf("no such user %s", email)
	}
	u.passwordHash = hash
	u.MustResetPassword = false
	return nil
}

func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

func (s *Store) IsRevoked(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revoked[token]
}

// SetAssignments installs the sub-companies a user may manage.
func (s *Store) SetAssignments(userID string, assignments []session.CompanyAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[userID] = assignments
}

func (s *Store) Assignments(userID string) []session.CompanyAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments[userID]
}

// SetCategory replaces the aggregated rows for one category.
func (s *Store) SetCategory(c analysis.Category, rows []analysis.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c] = rows
}

func (s *Store) Category(c analysis.Category) []analysis.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories[c]
}

// SaveSnapshot stores a snapshot and assigns its id.
func (s *Store) SaveSnapshot(snap analysis.Snapshot, isFinal bool) analysis.SnapshotRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap.ID = strconv.Itoa(s.nextID)
	s.nextID++
	s.snapshots = append(s.snapshots, snap)
	ref := analysis.SnapshotRef{
		ID:        snap.ID,
		Year:      snap.Year,
		Month:     snap.Month,
		MonthName: analysis.MonthName(snap.Month),
		IsFinal:   isFinal,
	}
	s.refs = append(s.refs, ref)
	return ref
}

// Snapshots returns refs for every saved snapshot in save order.
func (s *Store) Snapshots() []analysis.SnapshotRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]analysis.SnapshotRef, len(s.refs))
	copy(out, s.refs)
	return out
}

// Snapshot returns one snapshot body by id.
func (s *Store) Snapshot(id string) (analysis.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range s.snapshots {
		if snap.ID == id {
			return snap, true
		}
	}
	return analysis.Snapshot{}, false
}

// YearSnapshots returns the bodies of a year's final snapshots.
func (s *Store) YearSnapshots(year int) []analysis.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []analysis.Snapshot
	for i, ref := range s.refs {
		if ref.Year == year && ref.IsFinal {
			out = append(out, s.snapshots[i])
		}
	}
	return out
}

// AppendAssignment adds one sub-company to a user's assignment list,
// skipping duplicates.
func (s *Store) AppendAssignment(userID string, a session.CompanyAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments[userID] {
		if existing.CompanyID == a.CompanyID {
			return
		}
	}
	s.assignments[userID] = append(s.assignments[userID], a)
}

// SetProfile installs the effective company record.
func (s *Store) SetProfile(p company.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
}

func (s *Store) Profile() company.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// UpdateProfile replaces the mutable fields of the company record.
func (s *Store) UpdateProfile(req company.UpdateProfileRequest) company.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Name = req.Name
	s.profile.ABN = req.ABN
	s.profile.ContactNumber = req.ContactNumber
	s.profile.Location = req.Location
	return s.profile
}

func (s *Store) SubCompanies() []company.SubCompany {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]company.SubCompany, len(s.subCompanies))
	copy(out, s.subCompanies)
	return out
}

// AddSubCompany registers a child company, assigning an id when the
// seed did not provide one.
func (s *Store) AddSubCompany(sc company.SubCompany) company.SubCompany {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sc.ID == "" {
		sc.ID = fmt.Sprintf("sub-%d", s.nextID)
		s.nextID++
	}
	s.subCompanies = append(s.subCompanies, sc)
	return sc
}

func (s *Store) SubCompany(id string) (company.SubCompany, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sc := range s.subCompanies {
		if sc.ID == id {
			return sc, true
		}
	}
	return company.SubCompany{}, false
}

// AssignSubCompanySupers records which superusers manage a sub-company.
func (s *Store) AssignSubCompanySupers(subCompanyID string, userIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subSupers[subCompanyID] = append([]string(nil), userIDs...)
}

func (s *Store) SubCompanySupers(subCompanyID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subSupers[subCompanyID]
}

func (s *Store) Directory() []company.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]company.User, len(s.directory))
	copy(out, s.directory)
	return out
}

// AddDirectoryUser registers one directory account, assigning its id.
// The email must be unique.
func (s *Store) AddDirectoryUser(u company.User) (company.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.directory {
		if existing.Email == u.Email {
			return company.User{}, false
		}
	}
	if u.ID == "" {
		u.ID = fmt.Sprintf("usr-%d", s.nextID)
		s.nextID++
	}
	s.directory = append(s.directory, u)
	return u, true
}

// UpdateDirectoryUser replaces one account's details by id.
func (s *Store) UpdateDirectoryUser(u company.User) (company.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.directory {
		if existing.ID == u.ID {
			u.Active = existing.Active
			s.directory[i] = u
			return u, true
		}
	}
	return company.User{}, false
}

// SetDirectoryUserActive flips one account's active flag.
func (s *Store) SetDirectoryUserActive(id string, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.directory {
		if s.directory[i].ID == id {
			s.directory[i].Active = active
			return true
		}
	}
	return false
}

func (s *Store) Units() []company.BusinessUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]company.BusinessUnit, len(s.units))
	copy(out, s.units)
	return out
}

// AddUnit registers a reporting unit. The name must be unique.
func (s *Store) AddUnit(name string) (company.BusinessUnit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.units {
		if existing.Name == name {
			return company.BusinessUnit{}, false
		}
	}
	unit := company.BusinessUnit{ID: fmt.Sprintf("bu-%d", s.nextID), Name: name}
	s.nextID++
	s.units = append(s.units, unit)
	return unit, true
}

func (s *Store) AccessLevels() []company.AccessLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]company.AccessLevel, len(s.accessLevels))
	copy(out, s.accessLevels)
	return out
}

// AddAccessLevel registers a role name. The name must be unique.
func (s *Store) AddAccessLevel(name string) (company.AccessLevel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accessLevels {
		if existing.Name == name {
			return company.AccessLevel{}, false
		}
	}
	level := company.AccessLevel{ID: fmt.Sprintf("al-%d", s.nextID), Name: name}
	s.nextID++
	s.accessLevels = append(s.accessLevels, level)
	return level, true
}

// SuperUsers lists the directory accounts holding superuser access.
func (s *Store) SuperUsers() []company.SuperUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []company.SuperUser
	for _, u := range s.directory {
		if session.NormalizeAccess(u.AccessLevel) != "superuser" {
			continue
		}
		name := u.FirstName
		if u.LastName != "" {
			name += " " + u.LastName
		}
		out = append(out, company.SuperUser{UserID: u.ID, Email: u.Email, Name: name})
	}
	return out
}
