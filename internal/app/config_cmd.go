package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andyballingall/swift-format-plugin/internal/config"
)

func NewConfigCmd(p Plugin) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the swift-format configuration used for this project",
		Long: `A project's own .swift-format file is used when present. Otherwise the bundled
configuration is written to the work directory and used instead.`,
	}

	cmd.AddCommand(newConfigPathCmd(p))
	cmd.AddCommand(newConfigShowCmd(p))
	cmd.AddCommand(newConfigValidateCmd(p))
	cmd.AddCommand(newConfigInitCmd(p))

	return cmd
}

func newConfigPathCmd(p Plugin) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the path of the configuration swift-format will be given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := p.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Path)
			return nil
		},
	}
}

func newConfigShowCmd(p Plugin) *cobra.Command {
	return &cobra.Command{
		Use:   "show [key]",
		Short: "Print the configuration, or a single value from it",
		Example: `
  swift-format-plugin config show
  swift-format-plugin config show lineLength
  swift-format-plugin config show rules.NeverForceUnwrap`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) > 0 {
				key = args[0]
			}
			out, err := p.ShowConfig(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newConfigValidateCmd(p Plugin) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration against the options swift-format knows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			checked, err := p.ValidateConfig(path)
			if err != nil {
				return err
			}
			cmd.Printf("%s is a valid swift-format configuration.\n", checked)
			return nil
		},
	}
}

func newConfigInitCmd(p Plugin) *cobra.Command {
	var withSettings bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the bundled configuration to .swift-format in the project root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := p.InitConfig()
			if err != nil {
				return err
			}
			cmd.Printf("Created %s\n", path)

			if withSettings {
				settingsPath, err := p.InitSettings()
				if err != nil {
					return err
				}
				cmd.Printf("Created %s\n", settingsPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSettings, "settings", false,
		"Also write a plugin settings file ("+config.SettingsFileYAML+") with the defaults")

	return cmd
}
