package commands

import (
	"sort"
	"strings"

	"RemindBot/bot"

	"github.com/bwmarrin/discordgo"
)

// HandlerFunc handles one normalized command request. Both the prefix and
// the slash adapter end up here.
type HandlerFunc func(b *bot.Bot, req *Request) *Response

// CommandInfo holds detailed information about a command
type CommandInfo struct {
	Name        string   `json:"name"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description"`
	Usage       string   `json:"usage"`
	Category    string   `json:"category"`
}

// SlashCommandInfo describes the slash shape of a command. The handler is
// the one registered under the same name.
type SlashCommandInfo struct {
	Name        string                                `json:"name"`
	Description string                                `json:"description"`
	Options     []*discordgo.ApplicationCommandOption `json:"options"`
}

// ModuleInfo represents a complete module with its commands and metadata
type ModuleInfo struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Category      string             `json:"category"`
	Commands      []CommandInfo      `json:"commands"`
	SlashCommands []SlashCommandInfo `json:"slash_commands"`
}

// Global registries, filled from module init functions
var (
	RegisteredModules = make(map[string]*ModuleInfo)
	CommandDetails    = make(map[string]CommandInfo)
	CommandMap        = make(map[string]HandlerFunc)
	CommandAliases    = make(map[string]string)
)

// RegisterCommand registers individual commands (used by modules)
func RegisterCommand(name string, handler HandlerFunc, aliases ...string) {
	CommandMap[name] = handler
	for _, alias := range aliases {
		CommandAliases[alias] = name
	}
}

// RegisterModule registers a complete module and auto-compiles command info
func RegisterModule(module *ModuleInfo) {
	RegisteredModules[module.Name] = module
	for _, cmd := range module.Commands {
		CommandDetails[cmd.Name] = cmd
	}
}

// ResolveCommand maps a name or alias to its canonical name and handler.
func ResolveCommand(name string) (string, HandlerFunc, bool) {
	name = strings.ToLower(name)
	if actual, isAlias := CommandAliases[name]; isAlias {
		name = actual
	}
	handler, ok := CommandMap[name]
	return name, handler, ok
}

// GetModulesByCategory returns all modules in a specific category
func GetModulesByCategory(categoryName string) []*ModuleInfo {
	var modules []*ModuleInfo
	for _, module := range RegisteredModules {
		if strings.EqualFold(module.Category, categoryName) {
			modules = append(modules, module)
		}
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })
	return modules
}

// Categories returns the sorted category names of every registered module.
func Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, module := range RegisteredModules {
		if module.Category != "" && !seen[module.Category] {
			seen[module.Category] = true
			out = append(out, module.Category)
		}
	}
	sort.Strings(out)
	return out
}

// GetAllSlashCommands returns all registered slash commands for registration
func GetAllSlashCommands() []*discordgo.ApplicationCommand {
	var commands []*discordgo.ApplicationCommand
	for _, module := range RegisteredModules {
		for _, slashCmd := range module.SlashCommands {
			commands = append(commands, &discordgo.ApplicationCommand{
				Name:        slashCmd.Name,
				Description: slashCmd.Description,
				Options:     slashCmd.Options,
			})
		}
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })
	return commands
}
