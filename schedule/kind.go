package schedule

import "time"

// Keys names the JSON fields a kind persists. An empty ID key means the kind
// does not persist ids.
type Keys struct {
	ID          string
	Owner       string
	Destination string
	Payload     string
	Due         string
}

// Kind holds everything that differs between reminders and timers.
type Kind struct {
	Name         string
	FileName     string
	Horizon      time.Duration
	Staleness    time.Duration
	DropAtCutoff bool // drop entries due exactly Staleness ago
	ScanInterval time.Duration
	PayloadLimit int
	Cancelable   bool
	RequireText  bool
	Keys         Keys

	// presentation
	Title       string
	Color       int
	DefaultText string
}

var Reminders = Kind{
	Name:         "reminder",
	FileName:     "reminders.json",
	Horizon:      365 * 24 * time.Hour,
	Staleness:    365 * 24 * time.Hour,
	ScanInterval: 30 * time.Second,
	PayloadLimit: 1000,
	RequireText:  true,
	Keys: Keys{
		Owner:       "user_id",
		Destination: "channel_id",
		Payload:     "message",
		Due:         "remind_at",
	},
	Title: "🔔 Reminder!",
	Color: 0xF1C40F,
}

var Timers = Kind{
	Name:         "timer",
	FileName:     "timers.json",
	Horizon:      24 * time.Hour,
	Staleness:    24 * time.Hour,
	DropAtCutoff: true,
	ScanInterval: 10 * time.Second,
	PayloadLimit: 200,
	Cancelable:   true,
	Keys: Keys{
		ID:          "id",
		Owner:       "user_id",
		Destination: "channel_id",
		Payload:     "label",
		Due:         "end_ts",
	},
	Title:       "⏰ Timer Complete!",
	Color:       0x2ECC71,
	DefaultText: "Timer finished",
}

// HasID reports whether entries of this kind carry a persisted id.
func (k Kind) HasID() bool {
	return k.Keys.ID != ""
}

func (k Kind) truncate(s string) string {
	if k.PayloadLimit <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= k.PayloadLimit {
		return s
	}
	return string(r[:k.PayloadLimit])
}
