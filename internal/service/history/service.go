package history

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/worklens/console-go/internal/domain/analysis"
	"github.com/worklens/console-go/internal/domain/session"
	"golang.org/x/sync/errgroup"
)

// Backend is the slice of the API client the history manager needs.
type Backend interface {
	FetchAnalysis(ctx context.Context, category analysis.Category) ([]analysis.Row, error)
	SaveHistory(ctx context.Context, req *analysis.SaveSnapshotRequest) (analysis.SnapshotRef, error)
	ListHistory(ctx context.Context) ([]analysis.SnapshotRef, error)
	HistoryDetail(ctx context.Context, id string) (analysis.Snapshot, error)
	YTDAnalysis(ctx context.Context, year int) (analysis.Snapshot, error)
}

// Notifier is the transient-notification surface.
type Notifier interface {
	Success(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

// Selection is the current viewing choice: live data (zero value), one
// saved monthly snapshot, or the year-to-date aggregate.
type Selection struct {
	Mode     analysis.Mode
	Ref      analysis.SnapshotRef
	Snapshot *analysis.Snapshot
	Year     int
}

// Viewing reports whether a snapshot or YTD view is active.
func (s Selection) Viewing() bool { return s.Mode != "" }

// Service owns the live analysis containers, the saved-history list and
// the snapshot/YTD selection. Each category container is independent:
// a failed or in-flight fetch on one never blocks the others.
type Service struct {
	backend Backend
	store   session.Store
	notify  Notifier

	mu         sync.Mutex
	categories map[analysis.Category]*analysis.CategoryState
	history    []analysis.SnapshotRef
	selection  Selection
	selectSeq  uint64
	listeners  []func()
}

func NewService(backend Backend, store session.Store, notify Notifier) *Service {
	s := &Service{
		backend:    backend,
		store:      store,
		notify:     notify,
		categories: make(map[analysis.Category]*analysis.CategoryState),
	}
	for _, c := range analysis.Categories() {
		s.categories[c] = &analysis.CategoryState{}
	}
	return s
}

// Subscribe registers a callback invoked after every state change. Used
// by the console to redraw.
func (s *Service) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) emit() {
	s.mu.Lock()
	fns := make([]func(), len(s.listeners))
	copy(fns, s.listeners)
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// CategoryState returns a copy of one live container.
func (s *Service) CategoryState(c analysis.Category) analysis.CategoryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.categories[c]
}

// Rows returns the rows to display for a category under the current
// selection: snapshot or YTD rows when a view is active, the live
// container otherwise.
func (s *Service) Rows(c analysis.Category) []analysis.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection.Viewing() && s.selection.Snapshot != nil {
		return s.selection.Snapshot.Rows(c)
	}
	return s.categories[c].Data
}

// Selection returns the current viewing choice.
func (s *Service) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Refresh fetches the live aggregated rows for one category. A failure
// is recorded on that category's container only.
func (s *Service) Refresh(ctx context.Context, c analysis.Category) error {
	s.mu.Lock()
	st := s.categories[c]
	st.Loading = true
	st.Error = ""
	s.mu.Unlock()
	s.emit()

	rows, err := s.backend.FetchAnalysis(ctx, c)

	s.mu.Lock()
	st.Loading = false
	if err != nil {
		st.Error = err.Error()
	} else {
		st.Data = rows
	}
	s.mu.Unlock()
	s.emit()
	return err
}

// RefreshUploaded repopulates the live containers for every category
// with an upload on record, in parallel. A fresh process carries only
// the upload markers from the session file, so callers must refresh
// before composing a snapshot payload or it would persist empty rows.
func (s *Service) RefreshUploaded(ctx context.Context) error {
	var g errgroup.Group
	for _, name := range s.store.UploadedCategories() {
		c, err := analysis.ParseCategory(name)
		if err != nil {
			continue
		}
		g.Go(func() error { return s.Refresh(ctx, c) })
	}
	return g.Wait()
}

// RecordUpload installs freshly uploaded rows into a category container
// and marks the category as ever-uploaded. Any active snapshot or YTD
// view is dropped so the new live data is visible.
func (s *Service) RecordUpload(c analysis.Category, rows []analysis.Row) error {
	s.mu.Lock()
	st := s.categories[c]
	st.Data = rows
	st.Error = ""
	st.Uploading = false
	st.UploadProgress = 0
	st.UploadError = ""
	s.selection = Selection{}
	s.mu.Unlock()
	s.emit()

	return s.store.MarkUploaded(string(c))
}

// SaveSnapshot persists the current live data as a monthly snapshot.
// The payload carries exactly the categories that have ever been
// uploaded, each with whatever rows are resident right now. Nothing is
// sent when validation fails, and the history list is re-fetched after
// a successful save.
func (s *Service) SaveSnapshot(ctx context.Context, year, month int, isFinal bool) (analysis.SnapshotRef, error) {
	uploaded := s.store.UploadedCategories()
	if len(uploaded) == 0 {
		s.notify.Warning("Upload at least one analysis file before saving to history.")
		return analysis.SnapshotRef{}, analysis.ErrNothingToSnapshot
	}

	req := &analysis.SaveSnapshotRequest{IsFinal: isFinal, Year: year, Month: month}
	s.mu.Lock()
	for _, name := range uploaded {
		c, err := analysis.ParseCategory(name)
		if err != nil {
			continue
		}
		req.SetRows(c, s.categories[c].Data)
	}
	s.mu.Unlock()

	if err := req.Validate(); err != nil {
		s.notify.Error(err.Error())
		return analysis.SnapshotRef{}, err
	}

	saved, err := s.backend.SaveHistory(ctx, req)
	if err != nil {
		s.notify.Error("Failed to save analysis to history: " + err.Error())
		return analysis.SnapshotRef{}, err
	}
	s.notify.Success("Analysis saved to history!")

	if err := s.RefreshHistory(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to refresh history list after save")
	}
	return saved, nil
}

// RefreshHistory re-fetches the saved-snapshot list.
func (s *Service) RefreshHistory(ctx context.Context) error {
	list, err := s.backend.ListHistory(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.history = list
	s.mu.Unlock()
	s.emit()
	return nil
}

// History returns all saved snapshots, draft and final.
func (s *Service) History() []analysis.SnapshotRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]analysis.SnapshotRef, len(s.history))
	copy(out, s.history)
	return out
}

// FinalHistory returns only the snapshots marked final.
func (s *Service) FinalHistory() []analysis.SnapshotRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []analysis.SnapshotRef
	for _, ref := range s.history {
		if ref.IsFinal {
			out = append(out, ref)
		}
	}
	return out
}

// SelectSnapshot activates the monthly-snapshot view for one history
// entry. Selections are sequence-tagged: if another selection starts
// while this one's detail fetch is in flight, the late result is
// discarded and ErrStaleSelection is returned. The view is applied all
// at once, never category by category.
func (s *Service) SelectSnapshot(ctx context.Context, ref analysis.SnapshotRef) error {
	s.mu.Lock()
	s.selectSeq++
	seq := s.selectSeq
	s.mu.Unlock()

	snap, err := s.backend.HistoryDetail(ctx, ref.ID)
	if err != nil {
		s.mu.Lock()
		superseded := seq != s.selectSeq
		s.mu.Unlock()
		if superseded {
			// A newer selection already won; its view must not be
			// splashed over by this late failure.
			return analysis.ErrStaleSelection
		}
		s.notify.Error("Failed to load snapshot: " + err.Error())
		return err
	}

	s.mu.Lock()
	if seq != s.selectSeq {
		s.mu.Unlock()
		return analysis.ErrStaleSelection
	}
	s.selection = Selection{Mode: analysis.ModeMonth, Ref: ref, Snapshot: &snap}
	s.mu.Unlock()
	s.emit()
	return nil
}

// SelectYearToDate activates the backend-computed YTD view. It is
// mutually exclusive with a monthly snapshot selection.
func (s *Service) SelectYearToDate(ctx context.Context, year int) error {
	s.mu.Lock()
	s.selectSeq++
	seq := s.selectSeq
	s.mu.Unlock()

	snap, err := s.backend.YTDAnalysis(ctx, year)
	if err != nil {
		s.mu.Lock()
		superseded := seq != s.selectSeq
		s.mu.Unlock()
		if superseded {
			return analysis.ErrStaleSelection
		}
		s.notify.Error("Failed to load year-to-date analysis: " + err.Error())
		return err
	}

	s.mu.Lock()
	if seq != s.selectSeq {
		s.mu.Unlock()
		return analysis.ErrStaleSelection
	}
	s.selection = Selection{Mode: analysis.ModeYTD, Snapshot: &snap, Year: year}
	s.mu.Unlock()
	s.emit()
	return nil
}

// ClearSelection returns to the live view.
func (s *Service) ClearSelection() {
	s.mu.Lock()
	s.selectSeq++
	s.selection = Selection{}
	s.mu.Unlock()
	s.emit()
}
