package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"time"
)

// Entry is a single pending notification.
type Entry struct {
	ID            string
	OwnerID       int64
	DestinationID *int64 // nil falls back to a DM
	Payload       string
	DueAt         int64 // unix seconds, UTC
}

// Due returns the delivery time as a time.Time.
func (e Entry) Due() time.Time {
	return time.Unix(e.DueAt, 0).UTC()
}

// Owner returns the owner id in the string form discord expects.
func (e Entry) Owner() string {
	return strconv.FormatInt(e.OwnerID, 10)
}

// Destination returns the destination channel id, or "" when unset.
func (e Entry) Destination() string {
	if e.DestinationID == nil {
		return ""
	}
	return strconv.FormatInt(*e.DestinationID, 10)
}

// ShortID is the id prefix shown in listings.
func (e Entry) ShortID() string {
	if len(e.ID) <= 12 {
		return e.ID
	}
	return e.ID[:12]
}

// NewTimerID derives an id from the due time, the owner and the creation
// millisecond.
func NewTimerID(dueAt, ownerID int64, created time.Time) string {
	return formatTimerID(dueAt, ownerID, created.UnixMilli()%1000)
}

func formatTimerID(dueAt, ownerID, suffix int64) string {
	return fmt.Sprintf("%d-%d-%03d", dueAt, ownerID, suffix)
}

func sortByDue(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DueAt < entries[j].DueAt
	})
}

// Int64 returns a pointer to v, for building entries with a destination.
func Int64(v int64) *int64 {
	return &v
}
