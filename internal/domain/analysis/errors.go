package analysis

import "errors"

var (
	ErrSnapshotNotFound  = errors.New("analysis snapshot not found")
	ErrStaleSelection    = errors.New("snapshot selection superseded by a newer one")
	ErrNothingToSnapshot = errors.New("no analysis data has been uploaded yet")
)
