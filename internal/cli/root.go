package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/setlist/pkg/buildinfo"
	"github.com/matzehuels/setlist/pkg/config"
)

// commandsWithoutConfig run before (or regardless of) a valid config file.
var commandsWithoutConfig = map[string]bool{
	"completion": true,
	"statechart": true,
	"preview":    true,
	"help":       true,
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Setlist browses concert collections as interactive cards",
		Long: `Setlist is a terminal viewer for concert collections. Cards tilt under
the mouse, a click selects a card and lifts it above the others, a second
click flips it to show the details, and a click anywhere else closes it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			installHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if commandsWithoutConfig[cmd.Name()] {
				return nil
			}
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	f := root.PersistentFlags()
	f.StringVar(&c.flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/setlist/config.toml)")
	f.StringVar(&c.flags.apiURL, "api-url", "", "backend base URL")
	f.StringVar(&c.flags.locale, "locale", "", "label locale (e.g. en-US, ko-KR)")
	f.IntVar(&c.flags.pageSize, "page-size", 0, "cards per page")
	f.StringVar(&c.flags.source, "source", "", "collection source: "+config.SourceAPI+" or "+config.SourceMongo)
	f.BoolVar(&c.flags.noCache, "no-cache", false, "disable the response cache")
	f.BoolVar(&c.flags.refresh, "refresh", false, "bypass cached responses")
	registerFlagCompletions(root)

	root.AddCommand(c.browseCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.loginCommand())
	root.AddCommand(c.logoutCommand())
	root.AddCommand(c.whoamiCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.statechartCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
