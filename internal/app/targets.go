package app

import (
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andyballingall/swift-format-plugin/internal/project"
)

func NewTargetsCmd(p Plugin) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the package targets swift-format would run over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout := p.Layout()
			out := cmd.OutOrStdout()

			if layout.Kind != project.KindPackage {
				fmt.Fprintf(out, "%s is an Xcode-style project; swift-format runs recursively over %s\n",
					layout.Name, layout.Root)
				return nil
			}

			targets, err := p.Targets(cmd.Context())
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintln(out, "No targets found")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TARGET\tKIND\tFILES\tDIRECTORY")
			for _, t := range targets {
				rel, relErr := filepath.Rel(layout.Root, t.Dir)
				if relErr != nil {
					rel = t.Dir
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.Name, t.Kind, len(t.Files), filepath.ToSlash(rel))
			}
			return tw.Flush()
		},
	}
}
