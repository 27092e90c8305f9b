package commands

import (
	"fmt"
	"math"
	"runtime/debug"

	"RemindBot/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const genericError = "Something went wrong while running that command."

// Replier is the part of *discordgo.Session used to answer commands.
type Replier interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// HandleMessage returns the MessageCreate handler for prefix commands.
func HandleMessage(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if s.State != nil && s.State.User != nil && m.Author != nil && m.Author.ID == s.State.User.ID {
			return
		}
		DispatchMessage(b, s, m)
	}
}

// HandleInteraction returns the InteractionCreate handler for slash commands.
func HandleInteraction(b *bot.Bot) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		DispatchInteraction(b, s, i)
	}
}

// DispatchMessage runs a prefix command and replies in the same channel.
// Unknown commands are ignored.
func DispatchMessage(b *bot.Bot, r Replier, m *discordgo.MessageCreate) {
	req, ok := FromMessage(b.Prefix, m)
	if !ok {
		return
	}
	resp := Execute(b, req)
	if resp == nil {
		return
	}
	send := &discordgo.MessageSend{
		Content:         resp.Content,
		Reference:       m.Reference(),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if resp.Embed != nil {
		send.Embeds = []*discordgo.MessageEmbed{resp.Embed}
	}
	if _, err := r.ChannelMessageSendComplex(m.ChannelID, send); err != nil {
		b.Log.Warn("failed to send reply",
			zap.String("request_id", req.ID),
			zap.String("command", req.Command),
			zap.Error(err))
	}
}

// DispatchInteraction runs a slash command and answers the interaction.
func DispatchInteraction(b *bot.Bot, r Replier, i *discordgo.InteractionCreate) {
	req, ok := FromInteraction(i)
	if !ok {
		return
	}
	resp := Execute(b, req)
	if resp == nil {
		resp = &Response{Content: "Unknown command.", Ephemeral: true}
	}
	data := &discordgo.InteractionResponseData{
		Content:         resp.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if resp.Embed != nil {
		data.Embeds = []*discordgo.MessageEmbed{resp.Embed}
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.Log.Warn("failed to respond to interaction",
			zap.String("request_id", req.ID),
			zap.String("command", req.Command),
			zap.Error(err))
	}
}

// Execute resolves the command, applies the rate limit and runs the
// handler. A nil response means the command is unknown.
func Execute(b *bot.Bot, req *Request) (resp *Response) {
	name, handler, ok := ResolveCommand(req.Command)
	if !ok {
		return nil
	}
	req.Command = name

	log := b.Log.With(
		zap.String("request_id", req.ID),
		zap.String("command", name),
		zap.String("user", req.RequesterID),
		zap.Bool("slash", req.Slash))

	if b.Limiter != nil && !b.Limiter.Allow(req.RequesterID, name) {
		wait := b.Limiter.RetryAfter(req.RequesterID, name)
		log.Debug("rate limited", zap.Duration("retry_after", wait))
		return &Response{
			Content:   fmt.Sprintf("Slow down! Try again in %ds.", int(math.Ceil(wait.Seconds()))),
			Ephemeral: true,
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("command panicked",
				zap.Any("panic", rec),
				zap.ByteString("stack", debug.Stack()))
			resp = &Response{Content: genericError, Ephemeral: true}
		}
	}()

	log.Debug("running command", zap.Strings("args", req.Args))
	resp = handler(b, req)
	if resp == nil {
		resp = &Response{Content: genericError, Ephemeral: true}
	}
	return resp
}
