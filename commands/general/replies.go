package general

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"RemindBot/bot"
	"RemindBot/commands"
	"RemindBot/schedule"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const (
	colorInfo  = 0x3498DB
	colorOK    = 0x2ECC71
	colorError = 0xE74C3C

	maxListed   = 20
	listPayload = 80

	durationExamples = "`30s`, `10m`, `1h30m`, `2d`, `1d12h`"
)

func errorResponse(title, description string) *commands.Response {
	return &commands.Response{
		Embed: &discordgo.MessageEmbed{
			Title:       "❌ " + title,
			Description: description,
			Color:       colorError,
		},
		Ephemeral: true,
	}
}

func usageResponse(b *bot.Bot, name string) *commands.Response {
	info := commands.CommandDetails[name]
	return errorResponse("Missing arguments", fmt.Sprintf("Usage: `%s%s`", b.Prefix, info.Usage))
}

// durationResponse explains a rejected duration, or returns nil for errors
// that are not about the duration.
func durationResponse(title string, err error) *commands.Response {
	var msg string
	switch {
	case errors.Is(err, schedule.ErrInvalidDuration):
		msg = "Use a number followed by `s`, `m`, `h` or `d`."
	case errors.Is(err, schedule.ErrNonPositive):
		msg = "The duration must be greater than zero."
	case errors.Is(err, schedule.ErrOverHorizon):
		msg = strings.ToUpper(err.Error()[:1]) + err.Error()[1:] + "."
	default:
		return nil
	}
	resp := errorResponse(title, msg)
	resp.Embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Examples", Value: durationExamples},
	}
	return resp
}

func internalError(b *bot.Bot, req *commands.Request, err error) *commands.Response {
	b.Log.Error("command failed",
		zap.String("request_id", req.ID),
		zap.String("command", req.Command),
		zap.Error(err))
	return &commands.Response{Content: "Something went wrong while running that command.", Ephemeral: true}
}

// listResponse renders one line per entry, capped at maxListed.
func listResponse(title, empty string, entries []schedule.Entry, line func(i int, e schedule.Entry) string) *commands.Response {
	if len(entries) == 0 {
		return &commands.Response{Content: empty, Ephemeral: true}
	}
	var sb strings.Builder
	for i, e := range entries {
		if i == maxListed {
			fmt.Fprintf(&sb, "...and %d more", len(entries)-maxListed)
			break
		}
		sb.WriteString(line(i, e))
		sb.WriteByte('\n')
	}
	return &commands.Response{
		Embed: &discordgo.MessageEmbed{
			Title:       title,
			Description: strings.TrimRight(sb.String(), "\n"),
			Color:       colorInfo,
			Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("%d pending", len(entries))},
		},
		Ephemeral: true,
	}
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
