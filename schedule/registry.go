package schedule

import (
	"errors"
	"strconv"
	"strings"
	"sync"
)

var ErrDuplicateID = errors.New("entry id already in use")

// Registry is the live list of pending entries for one kind. Every mutation
// hands a snapshot to the saver.
type Registry struct {
	mu       sync.Mutex
	entries  []Entry
	kind     string
	saver    *Saver
	restored bool // no writes until the stored list is merged in
}

func NewRegistry(kind string, saver *Saver) *Registry {
	return &Registry{kind: kind, saver: saver}
}

// persist must be called with mu held.
func (r *Registry) persist() {
	mPending.WithLabelValues(r.kind).Set(float64(len(r.entries)))
	if r.saver == nil || !r.restored {
		return
	}
	r.saver.Enqueue(r.snapshot())
}

func (r *Registry) snapshot() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Registry) hasID(id string) bool {
	for _, e := range r.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Add appends e. Entries with a non-empty id must be unique.
func (r *Registry) Add(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID != "" && r.hasID(e.ID) {
		return ErrDuplicateID
	}
	r.entries = append(r.entries, e)
	r.persist()
	return nil
}

// Restore installs entries read from the store, ahead of anything added
// while the store was loading. Colliding ids get a numeric suffix.
func (r *Registry) Restore(loaded []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	early := r.entries
	r.entries = make([]Entry, 0, len(loaded)+len(early))
	for _, e := range loaded {
		if e.ID != "" {
			base := e.ID
			for n := 1; r.hasID(e.ID) || containsID(early, e.ID); n++ {
				e.ID = base + "-" + strconv.Itoa(n)
			}
		}
		r.entries = append(r.entries, e)
	}
	r.entries = append(r.entries, early...)
	r.restored = true
	r.persist()
}

// Restored reports whether Restore has run.
func (r *Registry) Restored() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.restored
}

func containsID(entries []Entry, id string) bool {
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// ListFor returns a copy of owner's entries sorted by due time.
func (r *Registry) ListFor(owner int64) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Entry{}
	for _, e := range r.entries {
		if e.OwnerID == owner {
			out = append(out, e)
		}
	}
	sortByDue(out)
	return out
}

// Cancel removes every entry of owner whose id starts with prefix and
// returns how many were removed.
func (r *Registry) Cancel(owner int64, prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0:0]
	removed := 0
	for _, e := range r.entries {
		if e.OwnerID == owner && strings.HasPrefix(e.ID, prefix) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed > 0 {
		r.entries = kept
		r.persist()
	}
	return removed
}

// PopDue removes and returns every entry due at or before now.
func (r *Registry) PopDue(now int64) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []Entry
	kept := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.DueAt <= now {
			due = append(due, e)
			continue
		}
		kept = append(kept, e)
	}
	if len(due) > 0 {
		r.entries = kept
		r.persist()
	}
	return due
}

// Snapshot returns a copy of every pending entry in registry order.
func (r *Registry) Snapshot() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
