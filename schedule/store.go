package schedule

import "context"

// Store persists the full entry list of one kind.
//
// Load never fails: unreadable or malformed state degrades to an empty list
// and is logged. Save replaces the persisted list atomically.
type Store interface {
	Load(ctx context.Context) []Entry
	Save(ctx context.Context, entries []Entry) error
}

// Reader loads persisted entries without creating files or tables, and
// reports failures instead of hiding them.
type Reader interface {
	Read(ctx context.Context) ([]Entry, error)
}

var (
	_ Reader = (*FileStore)(nil)
	_ Reader = (*SQLStore)(nil)
)
