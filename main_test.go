package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"RemindBot/bot"
	"RemindBot/schedule"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindByName(t *testing.T) {
	for _, name := range []string{"timer", "timers", "Timer"} {
		k, err := kindByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, schedule.Timers.Name, k.Name)
	}
	k, err := kindByName("reminders")
	require.NoError(t, err)
	assert.Equal(t, schedule.Reminders.Name, k.Name)

	_, err = kindByName("alarm")
	assert.Error(t, err)
}

func TestPrintEntries(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	var buf bytes.Buffer
	err := printEntries(&buf, schedule.Timers, []schedule.Entry{
		{ID: "1700000090-7-001", OwnerID: 7, DestinationID: schedule.Int64(10), Payload: "tea", DueAt: 1_700_000_090},
		{ID: "1700003600-8-002", OwnerID: 8, DueAt: 1_700_003_600},
	}, now)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "1700000090-7-001")
	assert.Contains(t, out, "1m 30s")
	assert.Contains(t, out, "2023-11-14T22:14:50Z")
	assert.Contains(t, out, "1h")
	assert.Contains(t, out, "2 timer entries\n")
}

type nopDeliverer struct{}

func (nopDeliverer) Deliver(context.Context, schedule.Entry) (schedule.Outcome, error) {
	return schedule.OutcomeChannel, nil
}

func TestHealthChecks(t *testing.T) {
	session, err := discordgo.New("Bot test")
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	log := zap.NewNop()
	b := &bot.Bot{
		Client:    session,
		Reminders: schedule.NewService(schedule.Reminders, schedule.NewFileStore(fs, "data", schedule.Reminders, log), nopDeliverer{}, log),
		Timers:    schedule.NewService(schedule.Timers, schedule.NewFileStore(fs, "data", schedule.Timers, log), nopDeliverer{}, log),
	}

	t.Cleanup(func() {
		_ = b.Reminders.Shutdown(context.Background())
		_ = b.Timers.Shutdown(context.Background())
	})

	checks := healthChecks(b)
	var names []string
	for _, c := range checks {
		names = append(names, c.Name)
		assert.Error(t, c.Run(context.Background()), "%s is unhealthy before startup", c.Name)
	}
	assert.Equal(t, []string{"gateway", "reminders", "timers"}, names)

	b.Timers.Scanner().Scan(context.Background())
	assert.NoError(t, checks[2].Run(context.Background()))
}
