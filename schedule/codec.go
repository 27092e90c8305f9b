package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type reminderRecord struct {
	UserID    int64  `json:"user_id"`
	ChannelID *int64 `json:"channel_id"`
	Message   string `json:"message"`
	RemindAt  int64  `json:"remind_at"`
}

type timerRecord struct {
	ID        string `json:"id"`
	UserID    int64  `json:"user_id"`
	ChannelID *int64 `json:"channel_id"`
	Label     string `json:"label"`
	EndTS     int64  `json:"end_ts"`
}

// encodeEntries writes entries as a JSON array indented by two spaces.
// Kinds with ids use the timer layout.
func encodeEntries(kind Kind, entries []Entry) ([]byte, error) {
	var records any
	if kind.HasID() {
		out := make([]timerRecord, 0, len(entries))
		for _, e := range entries {
			out = append(out, timerRecord{ID: e.ID, UserID: e.OwnerID, ChannelID: e.DestinationID, Label: e.Payload, EndTS: e.DueAt})
		}
		records = out
	} else {
		out := make([]reminderRecord, 0, len(entries))
		for _, e := range entries {
			out = append(out, reminderRecord{UserID: e.OwnerID, ChannelID: e.DestinationID, Message: e.Payload, RemindAt: e.DueAt})
		}
		records = out
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeEntries parses a persisted list, dropping every record that fails
// validation. Content that is not a JSON array yields an empty list and an
// error describing why.
func decodeEntries(kind Kind, data []byte, now time.Time) ([]Entry, int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return []Entry{}, 0, fmt.Errorf("decode %s list: %w", kind.Name, err)
	}

	entries := make([]Entry, 0, len(items))
	dropped := 0
	for _, raw := range items {
		e, ok := decodeRecord(kind, raw, now)
		if !ok {
			dropped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, dropped, nil
}

func decodeRecord(kind Kind, raw json.RawMessage, now time.Time) (Entry, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec map[string]any
	if err := dec.Decode(&rec); err != nil || rec == nil {
		return Entry{}, false
	}

	owner, ok := asInt64(rec[kind.Keys.Owner])
	if !ok {
		return Entry{}, false
	}

	var dest *int64
	if v, present := rec[kind.Keys.Destination]; present && v != nil {
		id, ok := asInt64(v)
		if !ok {
			return Entry{}, false
		}
		dest = &id
	}

	payload := ""
	switch v := rec[kind.Keys.Payload].(type) {
	case nil:
	case string:
		payload = v
	default:
		payload = fmt.Sprint(v)
	}

	dueRaw, present := rec[kind.Keys.Due]
	if !present {
		return Entry{}, false
	}
	due, ok := asInt64(dueRaw)
	if !ok {
		return Entry{}, false
	}
	return validate(kind, Entry{
		OwnerID:       owner,
		DestinationID: dest,
		Payload:       payload,
		DueAt:         due,
		ID:            stringField(rec, kind.Keys.ID),
	}, now)
}

// validate applies the load-time rules shared by every store.
func validate(kind Kind, e Entry, now time.Time) (Entry, bool) {
	if e.DueAt <= 0 {
		return Entry{}, false
	}
	cutoff := now.Add(-kind.Staleness).Unix()
	if e.DueAt < cutoff || (kind.DropAtCutoff && e.DueAt == cutoff) {
		return Entry{}, false
	}
	e.Payload = kind.truncate(e.Payload)
	if kind.HasID() {
		if e.ID == "" {
			e.ID = formatTimerID(e.DueAt, e.OwnerID, 0)
		}
	} else {
		e.ID = ""
	}
	return e, true
}

func stringField(rec map[string]any, key string) string {
	if key == "" {
		return ""
	}
	switch v := rec[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64/2 {
			return 0, false
		}
		return int64(f), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
