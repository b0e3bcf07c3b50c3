package cmd

import (
	"github.com/itsmostafa/regiontree/internal/outline"
	"github.com/itsmostafa/regiontree/internal/region"
	"github.com/itsmostafa/regiontree/internal/render"
	"github.com/spf13/cobra"
)

var showFormat string
var showLines bool
var showNoColor bool

var showCmd = &cobra.Command{
	Use:   "show FILE...",
	Short: "Print the region outline of one or more files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, opts, err := outputOptions(cmd)
		if err != nil {
			return err
		}

		for _, path := range args {
			doc, err := outline.LoadFile(path)
			if err != nil {
				return err
			}
			forest := region.Extract(doc.Text())
			log.Debug("extracted regions", "uri", doc.URI(), "regions", forest.Count(), "depth", forest.Depth())

			o := render.Outline{URI: doc.URI(), Regions: forest}
			if err := render.Write(cmd.OutOrStdout(), format, o, opts); err != nil {
				return err
			}
		}
		return nil
	},
}

// outputOptions merges the output flags over the loaded config.
func outputOptions(cmd *cobra.Command) (render.Format, render.Options, error) {
	name := cfg.Format
	if cmd.Flags().Changed("format") {
		name = showFormat
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		return "", render.Options{}, err
	}

	opts := render.Options{Color: cfg.Color, ShowLines: cfg.ShowLines}
	if cmd.Flags().Changed("lines") {
		opts.ShowLines = showLines
	}
	if showNoColor {
		opts.Color = false
	}
	return format, opts, nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&showFormat, "format", "f", "tree", "Output format (tree, json)")
	cmd.Flags().BoolVarP(&showLines, "lines", "l", false, "Show the line number of each region")
	cmd.Flags().BoolVar(&showNoColor, "no-color", false, "Disable colored output")
}

func init() {
	addOutputFlags(showCmd)
	rootCmd.AddCommand(showCmd)
}
