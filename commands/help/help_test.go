package help

import (
	"testing"

	"RemindBot/bot"
	"RemindBot/commands"
	_ "RemindBot/commands/general"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBot() *bot.Bot {
	return &bot.Bot{Log: zap.NewNop(), Prefix: "."}
}

func run(b *bot.Bot, command string, args ...string) *commands.Response {
	return commands.Execute(b, &commands.Request{Command: command, RequesterID: "1", Args: args})
}

func fieldValue(t *testing.T, embed *discordgo.MessageEmbed, name string) string {
	t.Helper()
	for _, f := range embed.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("no field %q in %q", name, embed.Title)
	return ""
}

func TestHelp_Categories(t *testing.T) {
	resp := run(testBot(), "h")
	require.NotNil(t, resp.Embed)
	assert.True(t, resp.Ephemeral)
	assert.Equal(t, "Help", resp.Embed.Title)
	assert.Contains(t, resp.Embed.Description, "`.help <command>`")

	require.Len(t, resp.Embed.Fields, 1, "both modules share one category")
	assert.Equal(t, "`.help general` for commands in this category", fieldValue(t, resp.Embed, "General"))
}

func TestHelp_CommandByAlias(t *testing.T) {
	resp := run(testBot(), "help", "RemindMe")
	require.NotNil(t, resp.Embed)
	assert.Equal(t, "Help: remind", resp.Embed.Title)
	assert.Equal(t, "Set a reminder for yourself", resp.Embed.Description)
	assert.Equal(t, "`.remind <duration> <message>`", fieldValue(t, resp.Embed, "Usage"))
	assert.Equal(t, "remindme", fieldValue(t, resp.Embed, "Aliases"))
	assert.Equal(t, "General", fieldValue(t, resp.Embed, "Category"))

	resp = run(testBot(), "help", "ct")
	assert.Equal(t, "ct, cancel", fieldValue(t, resp.Embed, "Aliases"))
}

func TestHelp_CommandWithoutAliases(t *testing.T) {
	resp := run(testBot(), "help", "timers")
	require.NotNil(t, resp.Embed)
	for _, f := range resp.Embed.Fields {
		assert.NotEqual(t, "Aliases", f.Name)
	}
}

func TestHelp_Category(t *testing.T) {
	resp := run(testBot(), "help", "general")
	require.NotNil(t, resp.Embed)
	assert.Equal(t, "Help: General", resp.Embed.Title)

	var names []string
	for _, f := range resp.Embed.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		".remind <duration> <message>",
		".reminders",
		".timer <duration> [label]",
		".timers",
		".cancel_timer <id>",
		".help [command|category]",
	}, names)
}

func TestHelp_UnknownTopic(t *testing.T) {
	resp := run(testBot(), "help", "weather")
	assert.Nil(t, resp.Embed)
	assert.Equal(t, "Command `weather` not found.", resp.Content)
	assert.True(t, resp.Ephemeral)
}

func TestHelp_SlashTopic(t *testing.T) {
	req, ok := commands.FromInteraction(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "10",
		User:      &discordgo.User{ID: "1", Username: "alice"},
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "help",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "topic", Type: discordgo.ApplicationCommandOptionString, Value: "timer"},
			},
		},
	}})
	require.True(t, ok)

	resp := commands.Execute(testBot(), req)
	require.NotNil(t, resp.Embed)
	assert.Equal(t, "Help: timer", resp.Embed.Title)
	assert.Equal(t, "`.timer <duration> [label]`", fieldValue(t, resp.Embed, "Usage"))
}
