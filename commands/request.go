package commands

import (
	"fmt"
	"strings"

	"RemindBot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Request is a command invocation with the transport stripped away.
type Request struct {
	ID             string
	Command        string
	RequesterID    string
	RequesterName  string
	ReplyChannelID string
	Args           []string
	Slash          bool
}

// Owner returns the requester id as an integer.
func (r *Request) Owner() (int64, error) {
	return utils.ParseSnowflake(r.RequesterID)
}

// Destination returns the channel the command was used in, if any.
func (r *Request) Destination() *int64 {
	return utils.OptionalSnowflake(r.ReplyChannelID)
}

// Rest joins the arguments from index i on.
func (r *Request) Rest(i int) string {
	if i >= len(r.Args) {
		return ""
	}
	return strings.TrimSpace(strings.Join(r.Args[i:], " "))
}

// Response is what a handler wants sent back.
type Response struct {
	Content   string
	Embed     *discordgo.MessageEmbed
	Ephemeral bool
}

// FromMessage builds a request from a prefixed chat message. It returns
// false for messages that are not commands.
func FromMessage(prefix string, m *discordgo.MessageCreate) (*Request, bool) {
	if m.Author == nil || m.Author.Bot || prefix == "" {
		return nil, false
	}
	if !strings.HasPrefix(m.Content, prefix) {
		return nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(fields) == 0 {
		return nil, false
	}
	return &Request{
		ID:             uuid.NewString(),
		Command:        strings.ToLower(fields[0]),
		RequesterID:    m.Author.ID,
		RequesterName:  displayName(m.Member, m.Author),
		ReplyChannelID: m.ChannelID,
		Args:           fields[1:],
	}, true
}

// FromInteraction builds a request from a slash command. Option values are
// passed as arguments in the order they were declared.
func FromInteraction(i *discordgo.InteractionCreate) (*Request, bool) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil, false
	}
	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user == nil {
		return nil, false
	}

	data := i.ApplicationCommandData()
	args := make([]string, 0, len(data.Options))
	for _, opt := range data.Options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			args = append(args, opt.StringValue())
			continue
		}
		args = append(args, fmt.Sprint(opt.Value))
	}

	return &Request{
		ID:             uuid.NewString(),
		Command:        strings.ToLower(data.Name),
		RequesterID:    user.ID,
		RequesterName:  displayName(i.Member, user),
		ReplyChannelID: i.ChannelID,
		Args:           args,
		Slash:          true,
	}, true
}

func displayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
