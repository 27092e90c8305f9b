package help

import (
	"RemindBot/commands"

	"github.com/bwmarrin/discordgo"
)

func init() {
	module := &commands.ModuleInfo{
		Name:        "Help",
		Description: "Help system with command documentation",
		Category:    "General",
		Commands: []commands.CommandInfo{
			{
				Name:        "help",
				Aliases:     []string{"h"},
				Description: "Displays help information for commands",
				Usage:       "help [command|category]",
				Category:    "General",
			},
		},
		SlashCommands: []commands.SlashCommandInfo{
			{
				Name:        "help",
				Description: "Displays help information for commands",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "topic",
						Description: "A command or category",
						Required:    false,
					},
				},
			},
		},
	}

	commands.RegisterModule(module)
	commands.RegisterCommand("help", Help, "h")
}
