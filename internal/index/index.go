package index

// ContentIndex defines the operations of the note body search index.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type ContentIndex interface {
	UpsertNote(n NoteRow, body string) error
	DeleteNote(filename string) error
	GetChecksum(filename string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies ContentIndex at compile time.
var _ ContentIndex = (*DB)(nil)
