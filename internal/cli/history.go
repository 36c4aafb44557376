package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vrsandeep/tokyo-links/internal/models"
)

func newHistoryCommand(global *globalOptions) *cobra.Command {
	var (
		limit int
		runID int64
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous runs, or the items of one run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				return fmt.Errorf("run history is disabled (history.enabled=false)")
			}
			app, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if runID > 0 {
				if _, err := app.Store().GetRun(runID); err != nil {
					return err
				}
				items, err := app.Store().GetRunItems(runID)
				if err != nil {
					return err
				}
				renderItems(cmd.OutOrStdout(), items)
				return nil
			}
			runs, err := app.Store().ListRuns(limit)
			if err != nil {
				return err
			}
			renderRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to list, 0 for all")
	cmd.Flags().Int64Var(&runID, "run", 0, "show the items of this run")
	return cmd
}

func renderRuns(w io.Writer, runs []*models.RunRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Started", "Catalog", "Metric", "Links", "Failed", "Partial"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.CatalogURL,
			r.Metric,
			fmt.Sprintf("%d/%d", r.Succeeded, r.Total),
			r.Failed,
			r.Partial,
		})
	}
	t.Render()
}

func renderItems(w io.Writer, items []*models.RunItem) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Type", "Index", "Status", "Link"})
	for _, it := range items {
		link := it.DownloadURL
		if link == "" {
			link = it.Message
		}
		t.AppendRow(table.Row{it.Type, it.Index, it.Status, link})
	}
	t.Render()
}
