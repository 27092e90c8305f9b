package commands

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// SlashAPI is the part of *discordgo.Session used to sync slash commands.
type SlashAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandEdit(appID, guildID, cmdID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// commandNeedsUpdate checks if an existing command needs to be updated
func commandNeedsUpdate(existing, desired *discordgo.ApplicationCommand) bool {
	if existing.Name != desired.Name {
		return true
	}
	if existing.Description != desired.Description {
		return true
	}
	if len(existing.Options) != len(desired.Options) {
		return true
	}
	for i, option := range existing.Options {
		desiredOption := desired.Options[i]
		if option.Name != desiredOption.Name ||
			option.Description != desiredOption.Description ||
			option.Type != desiredOption.Type ||
			option.Required != desiredOption.Required {
			return true
		}
	}
	return false
}

// RegisterAllSlashCommands registers and updates slash commands from all
// modules, and deletes the ones no module declares anymore.
func RegisterAllSlashCommands(ctx context.Context, api SlashAPI, appID, guildID string, log *zap.Logger) error {
	existingCommands, err := api.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}

	existingMap := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range existingCommands {
		existingMap[cmd.Name] = cmd
	}

	for _, desired := range GetAllSlashCommands() {
		if existing, exists := existingMap[desired.Name]; exists {
			if commandNeedsUpdate(existing, desired) {
				log.Info("updating slash command", zap.String("command", desired.Name))
				if _, err := api.ApplicationCommandEdit(appID, guildID, existing.ID, desired, discordgo.WithContext(ctx)); err != nil {
					log.Error("error updating slash command", zap.String("command", desired.Name), zap.Error(err))
				}
			}
			// still wanted
			delete(existingMap, desired.Name)
			continue
		}
		log.Info("creating slash command", zap.String("command", desired.Name))
		if _, err := api.ApplicationCommandCreate(appID, guildID, desired, discordgo.WithContext(ctx)); err != nil {
			log.Error("error creating slash command", zap.String("command", desired.Name), zap.Error(err))
		}
	}

	for _, cmd := range existingMap {
		log.Info("deleting unused slash command", zap.String("command", cmd.Name))
		if err := api.ApplicationCommandDelete(appID, guildID, cmd.ID, discordgo.WithContext(ctx)); err != nil {
			log.Error("error deleting slash command", zap.String("command", cmd.Name), zap.Error(err))
		}
	}
	return nil
}
