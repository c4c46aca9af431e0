package app

import (
	"github.com/spf13/cobra"

	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
)

func NewLintCmd(p Plugin) *cobra.Command {
	var rf runFlags

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Lint Swift sources with swift-format",
		Long: `Runs 'swift-format lint' as a build pre-step.

In a Swift package, swift-format runs once per source target with that target's
.swift files. Targets without Swift files and binary targets are skipped.
In any other project, swift-format runs once over the whole tree.

Lint failures are reported but do not fail the command unless --strict is set.`,
		Example: `
  swift-format-plugin lint
  swift-format-plugin lint -t App -t AppTests --strict
  swift-format-plugin -p ./MyApp lint --report text
  swift-format-plugin lint --since origin/main --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rf.run(cmd.Context(), p, swiftformat.ModeLint)
		},
	}
	rf.bind(cmd)

	return cmd
}
