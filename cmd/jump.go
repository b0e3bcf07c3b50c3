package cmd

import (
	"fmt"

	"github.com/itsmostafa/regiontree/internal/outline"
	"github.com/itsmostafa/regiontree/internal/render"
	"github.com/spf13/cobra"
)

var jumpCmd = &cobra.Command{
	Use:   "jump FILE LABEL",
	Short: "Print the cursor position of a region",
	Long: `Print the position of the first region named LABEL as FILE:LINE:COLUMN,
suitable for passing to an editor.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := outline.LoadFile(args[0])
		if err != nil {
			return err
		}

		session := outline.NewSession(log)
		session.Focus(doc)

		target, err := session.Select(session.Regions().Find(args[1]))
		if err != nil {
			return fmt.Errorf("region %q in %s: %w", args[1], args[0], err)
		}

		render.Target(cmd.OutOrStdout(), target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(jumpCmd)
}
