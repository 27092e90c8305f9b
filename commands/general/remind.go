package general

import (
	"errors"
	"fmt"

	"RemindBot/bot"
	"RemindBot/commands"
	"RemindBot/schedule"

	"github.com/bwmarrin/discordgo"
)

func Remind(b *bot.Bot, req *commands.Request) *commands.Response {
	if len(req.Args) < 2 {
		return usageResponse(b, "remind")
	}
	owner, err := req.Owner()
	if err != nil {
		return internalError(b, req, err)
	}

	e, seconds, err := b.Reminders.Schedule(owner, req.Destination(), req.Args[0], req.Rest(1))
	if err != nil {
		if resp := durationResponse("Invalid Time Format", err); resp != nil {
			return resp
		}
		if errors.Is(err, schedule.ErrEmptyPayload) {
			return usageResponse(b, "remind")
		}
		return internalError(b, req, err)
	}

	return &commands.Response{
		Embed: &discordgo.MessageEmbed{
			Title:       "⏰ Reminder Set",
			Description: fmt.Sprintf("I'll remind you in **%s**", schedule.FormatDuration(seconds)),
			Color:       colorInfo,
			Fields: []*discordgo.MessageEmbedField{
				{Name: "Reminder", Value: e.Payload},
				{Name: "Time", Value: fmt.Sprintf("<t:%d:F> (<t:%d:R>)", e.DueAt, e.DueAt)},
			},
			Footer: &discordgo.MessageEmbedFooter{Text: "Reminder for " + req.RequesterName},
		},
	}
}

func Reminders(b *bot.Bot, req *commands.Request) *commands.Response {
	owner, err := req.Owner()
	if err != nil {
		return internalError(b, req, err)
	}
	return listResponse("🔔 Your Reminders", "You have no pending reminders.", b.Reminders.ListFor(owner),
		func(i int, e schedule.Entry) string {
			return fmt.Sprintf("`#%d` <t:%d:R> · %s", i+1, e.DueAt, clip(e.Payload, listPayload))
		})
}
