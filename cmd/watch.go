package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/itsmostafa/regiontree/internal/outline"
	"github.com/itsmostafa/regiontree/internal/render"
	"github.com/itsmostafa/regiontree/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE...",
	Short: "Keep the region outline of a file up to date",
	Long: `Show the outline of the first FILE and redraw it every time the file is
saved. Further files are opened alongside it; saving them does not change the
outline. Removing the active file clears the outline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, opts, err := outputOptions(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := watch.New(cfg.Debounce, log)
		if err != nil {
			return err
		}
		defer w.Close()

		session := outline.NewSession(log)
		session.OnChange(func() {
			o := render.Outline{URI: session.URI(), Regions: session.Regions()}
			if err := render.Write(out, format, o, opts); err != nil {
				log.Error("render failed", "error", err)
			}
		})

		for i, path := range args {
			abs, err := w.Add(path)
			if err != nil {
				return err
			}
			doc, err := outline.LoadFile(abs)
			if err != nil {
				return err
			}
			if i == 0 {
				session.Focus(doc)
			} else {
				session.Open(doc)
			}
		}
		log.Info("watching", "session", session.ID, "files", len(args))

		for {
			select {
			case <-ctx.Done():
				log.Info("stopping watch")
				return nil

			case err, ok := <-w.Errors():
				if !ok {
					return nil
				}
				log.Warn("watcher error", "error", err)

			case ev, ok := <-w.Events():
				if !ok {
					return nil
				}
				switch ev.Op {
				case watch.OpClose:
					session.Close(&outline.TextDocument{Path: ev.Path})
				case watch.OpSave:
					doc, err := outline.LoadFile(ev.Path)
					if err != nil {
						log.Warn("reload failed", "path", ev.Path, "error", err)
						continue
					}
					if session.Active() == nil {
						session.Focus(doc)
					} else {
						session.Save(doc)
					}
				}
			}
		}
	},
}

func init() {
	addOutputFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
