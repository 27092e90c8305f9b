package general

import (
	"RemindBot/commands"

	"github.com/bwmarrin/discordgo"
)

func init() {
	module := &commands.ModuleInfo{
		Name:        "General",
		Description: "Reminders and timers",
		Category:    "General",
		Commands: []commands.CommandInfo{
			{
				Name:        "remind",
				Aliases:     []string{"remindme"},
				Description: "Set a reminder for yourself",
				Usage:       "remind <duration> <message>",
				Category:    "General",
			},
			{
				Name:        "reminders",
				Description: "List your pending reminders",
				Usage:       "reminders",
				Category:    "General",
			},
			{
				Name:        "timer",
				Description: "Start a timer, optionally with a label",
				Usage:       "timer <duration> [label]",
				Category:    "General",
			},
			{
				Name:        "timers",
				Description: "List your running timers",
				Usage:       "timers",
				Category:    "General",
			},
			{
				Name:        "cancel_timer",
				Aliases:     []string{"ct", "cancel"},
				Description: "Cancel timers whose id starts with the given prefix",
				Usage:       "cancel_timer <id>",
				Category:    "General",
			},
		},
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "remind",
				Description: "Set a reminder for yourself",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "time",
						Description: "When, e.g. 10m, 1h30m, 2d",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "reminder",
						Description: "What to remind you about",
						Required:    true,
					},
				},
			},
			{
				Name:        "reminders",
				Description: "List your pending reminders",
			},
			{
				Name:        "timer",
				Description: "Start a timer",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "duration",
						Description: "How long, e.g. 30s, 5m, 1h",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "label",
						Description: "Optional label",
						Required:    false,
					},
				},
			},
			{
				Name:        "timers",
				Description: "List your running timers",
			},
			{
				Name:        "cancel_timer",
				Description: "Cancel a running timer",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "id",
						Description: "Timer id or a prefix of it",
						Required:    true,
					},
				},
			},
		},
	}

	commands.RegisterModule(module)

	// Register command handlers
	commands.RegisterCommand("remind", Remind, "remindme")
	commands.RegisterCommand("reminders", Reminders)
	commands.RegisterCommand("timer", Timer)
	commands.RegisterCommand("timers", Timers)
	commands.RegisterCommand("cancel_timer", CancelTimer, "ct", "cancel")
}
