package general

import (
	"errors"
	"fmt"

	"RemindBot/bot"
	"RemindBot/commands"
	"RemindBot/schedule"

	"github.com/bwmarrin/discordgo"
)

func Timer(b *bot.Bot, req *commands.Request) *commands.Response {
	if len(req.Args) < 1 {
		return usageResponse(b, "timer")
	}
	owner, err := req.Owner()
	if err != nil {
		return internalError(b, req, err)
	}

	e, seconds, err := b.Timers.Schedule(owner, req.Destination(), req.Args[0], req.Rest(1))
	if err != nil {
		if resp := durationResponse("Invalid Duration", err); resp != nil {
			return resp
		}
		return internalError(b, req, err)
	}

	embed := &discordgo.MessageEmbed{
		Title: "⏱️ Timer Started",
		Color: colorOK,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Timer ID", Value: fmt.Sprintf("`%s`", e.ID)},
			{Name: "Duration", Value: schedule.FormatDuration(seconds), Inline: true},
			{Name: "Ends", Value: fmt.Sprintf("<t:%d:R>", e.DueAt), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Timer for %s · cancel with %scancel_timer %s", req.RequesterName, b.Prefix, e.ShortID()),
		},
	}
	if e.Payload != "" {
		embed.Description = e.Payload
	}
	return &commands.Response{Embed: embed}
}

func Timers(b *bot.Bot, req *commands.Request) *commands.Response {
	owner, err := req.Owner()
	if err != nil {
		return internalError(b, req, err)
	}
	return listResponse("⏱️ Your Timers", "You have no running timers.", b.Timers.ListFor(owner),
		func(_ int, e schedule.Entry) string {
			label := e.Payload
			if label == "" {
				label = "Timer"
			}
			return fmt.Sprintf("`%s` · %s · ends <t:%d:R>", e.ShortID(), clip(label, listPayload), e.DueAt)
		})
}

func CancelTimer(b *bot.Bot, req *commands.Request) *commands.Response {
	if len(req.Args) < 1 {
		return usageResponse(b, "cancel_timer")
	}
	prefix := req.Args[0]
	owner, err := req.Owner()
	if err != nil {
		return internalError(b, req, err)
	}

	n, err := b.Timers.Cancel(owner, prefix)
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		return errorResponse("Not found", fmt.Sprintf("No running timer of yours matches `%s`.", prefix))
	case errors.Is(err, schedule.ErrEmptyPrefix):
		return usageResponse(b, "cancel_timer")
	case err != nil:
		return internalError(b, req, err)
	}

	msg := "✅ Timer cancelled."
	if n > 1 {
		msg = fmt.Sprintf("✅ Cancelled %d timers.", n)
	}
	return &commands.Response{Content: msg, Ephemeral: true}
}
