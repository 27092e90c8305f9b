package help

import (
	"fmt"
	"strings"

	"RemindBot/bot"
	"RemindBot/commands"

	"github.com/bwmarrin/discordgo"
)

const helpColor = 0x00ff00

func Help(b *bot.Bot, req *commands.Request) *commands.Response {
	if topic := strings.ToLower(req.Rest(0)); topic != "" {
		if embed := commandHelp(b.Prefix, topic); embed != nil {
			return &commands.Response{Embed: embed, Ephemeral: true}
		}
		if embed := categoryHelp(b.Prefix, topic); embed != nil {
			return &commands.Response{Embed: embed, Ephemeral: true}
		}
		return &commands.Response{
			Content:   fmt.Sprintf("Command `%s` not found.", topic),
			Ephemeral: true,
		}
	}

	// General help - show categories
	embed := &discordgo.MessageEmbed{
		Title: "Help",
		Description: fmt.Sprintf("Here is a list of command categories. For more information on a specific command, type `%shelp <command>`.",
			b.Prefix),
		Color: helpColor,
	}
	for _, category := range commands.Categories() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  category,
			Value: fmt.Sprintf("`%shelp %s` for commands in this category", b.Prefix, strings.ToLower(category)),
		})
	}
	return &commands.Response{Embed: embed, Ephemeral: true}
}

func commandHelp(prefix, name string) *discordgo.MessageEmbed {
	if actualName, isAlias := commands.CommandAliases[name]; isAlias {
		name = actualName
	}
	info, exists := commands.CommandDetails[name]
	if !exists {
		return nil
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Help: %s", info.Name),
		Description: info.Description,
		Color:       helpColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Usage", Value: fmt.Sprintf("`%s%s`", prefix, info.Usage)},
		},
	}
	if len(info.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Aliases",
			Value: strings.Join(info.Aliases, ", "),
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Category",
		Value: info.Category,
	})
	return embed
}

func categoryHelp(prefix, category string) *discordgo.MessageEmbed {
	modules := commands.GetModulesByCategory(category)
	if len(modules) == 0 {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Help: %s", modules[0].Category),
		Color: helpColor,
	}
	for _, module := range modules {
		for _, cmd := range module.Commands {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  prefix + cmd.Usage,
				Value: cmd.Description,
			})
		}
	}
	return embed
}
