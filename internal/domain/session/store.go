package session

// Store is the persistent session storage. All consumers receive the
// session through a Store rather than reading ambient global state, so
// the resolver's state machine stays testable in isolation.
type Store interface {
	// Get returns the current session; a never-written store returns a
	// zero session in the Unauthenticated state.
	Get() Session
	Put(Session) error
	// Clear wipes every persisted field, including upload markers.
	Clear() error

	// MarkUploaded records that a category has been uploaded at least
	// once on this device. The marker set decides which categories a
	// snapshot save includes.
	MarkUploaded(category string) error
	UploadedCategories() []string
}
