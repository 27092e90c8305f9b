package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RemindBot/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Outcome is how a delivery attempt ended.
type Outcome string

const (
	OutcomeChannel Outcome = "channel"
	OutcomeDM      Outcome = "dm"
	OutcomeDropped Outcome = "dropped"
)

// Deliverer notifies the owner of a due entry.
type Deliverer interface {
	Deliver(ctx context.Context, e Entry) (Outcome, error)
}

// Gateway is the part of *discordgo.Session delivery needs.
type Gateway interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
}

var errNotTextChannel = errors.New("channel cannot receive messages")

// DiscordDelivery posts in the entry's channel with a mention of the owner,
// falling back to a direct message.
type DiscordDelivery struct {
	gw   Gateway
	kind Kind
	log  *zap.Logger
	now  func() time.Time
}

func NewDiscordDelivery(gw Gateway, kind Kind, log *zap.Logger) *DiscordDelivery {
	return &DiscordDelivery{gw: gw, kind: kind, log: log, now: time.Now}
}

func (d *DiscordDelivery) Deliver(ctx context.Context, e Entry) (Outcome, error) {
	embed := d.embed(e)

	if e.DestinationID != nil {
		err := d.postInChannel(ctx, e, embed)
		if err == nil {
			return OutcomeChannel, nil
		}
		d.log.Debug("channel delivery failed, falling back to DM",
			zap.String("owner", e.Owner()),
			zap.String("channel", e.Destination()),
			zap.Error(err))
	}

	dm, err := d.gw.UserChannelCreate(e.Owner(), discordgo.WithContext(ctx))
	if err != nil {
		return OutcomeDropped, fmt.Errorf("create DM channel for %s: %w", e.Owner(), err)
	}
	if _, err := d.gw.ChannelMessageSendComplex(dm.ID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx)); err != nil {
		return OutcomeDropped, fmt.Errorf("send DM to %s: %w", e.Owner(), err)
	}
	return OutcomeDM, nil
}

func (d *DiscordDelivery) postInChannel(ctx context.Context, e Entry, embed *discordgo.MessageEmbed) error {
	ch, err := d.gw.Channel(e.Destination(), discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	if !textCapable(ch.Type) {
		return errNotTextChannel
	}
	_, err = d.gw.ChannelMessageSendComplex(ch.ID, &discordgo.MessageSend{
		Content: utils.Mention(e.Owner()),
		Embeds:  []*discordgo.MessageEmbed{embed},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{e.Owner()},
		},
	}, discordgo.WithContext(ctx))
	return err
}

func textCapable(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeDM,
		discordgo.ChannelTypeGroupDM,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildNewsThread:
		return true
	}
	return false
}

func (d *DiscordDelivery) embed(e Entry) *discordgo.MessageEmbed {
	text := e.Payload
	if text == "" {
		text = d.kind.DefaultText
	}
	embed := &discordgo.MessageEmbed{
		Title:       d.kind.Title,
		Description: text,
		Color:       d.kind.Color,
		Timestamp:   d.now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Scheduled for", Value: fmt.Sprintf("<t:%d:f>", e.DueAt), Inline: true},
		},
	}
	if e.ID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Timer ID", Value: e.ID, Inline: false})
	}
	return embed
}
