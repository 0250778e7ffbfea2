package discordbot

import (
	"github.com/disgoorg/disgo/discord"

	"github.com/osa030/noteblock/internal/app/command"
)

// SlashCommands converts the dispatcher's command table into Discord command definitions.
func SlashCommands(cmds []command.Command) []discord.ApplicationCommandCreate {
	out := make([]discord.ApplicationCommandCreate, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, discord.SlashCommandCreate{
			Name:        c.Name,
			Description: c.Description,
			Options:     commandOptions(c),
		})
	}
	return out
}

func commandOptions(c command.Command) []discord.ApplicationCommandOption {
	if len(c.SubCommands) == 0 {
		return stringOptions(c.Options)
	}

	opts := make([]discord.ApplicationCommandOption, 0, len(c.SubCommands))
	for _, sc := range c.SubCommands {
		opts = append(opts, discord.ApplicationCommandOptionSubCommand{
			Name:        sc.Name,
			Description: sc.Description,
			Options:     stringOptions(sc.Options),
		})
	}
	return opts
}

func stringOptions(options []command.Option) []discord.ApplicationCommandOption {
	if len(options) == 0 {
		return nil
	}
	opts := make([]discord.ApplicationCommandOption, 0, len(options))
	for _, o := range options {
		opts = append(opts, discord.ApplicationCommandOptionString{
			Name:         o.Name,
			Description:  o.Description,
			Required:     o.Required,
			Autocomplete: o.Autocomplete,
		})
	}
	return opts
}
