package app

import (
	"github.com/spf13/cobra"

	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
)

func NewFormatCmd(p Plugin) *cobra.Command {
	var rf runFlags

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Format Swift sources in place with swift-format",
		Long: `Runs 'swift-format format --in-place' over the project.

In a Swift package each source target is formatted separately and skipped
targets are reported. Set 'parallel: false' in the settings file to drop
--parallel from the command line.`,
		Example: `
  swift-format-plugin format
  swift-format-plugin format --target App --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rf.run(cmd.Context(), p, swiftformat.ModeFormat)
		},
	}
	rf.bind(cmd)

	return cmd
}
