package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meddesk-ai/meddesk/pkg/config"
	"github.com/meddesk-ai/meddesk/pkg/history"
)

func newStatsCmd() *cobra.Command {
	var (
		configPath string
		recent     int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show answer history statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			hist, err := history.New(cfg.DBPath)
			if err != nil {
				return err
			}
			defer hist.Close()

			ctx := context.Background()

			if recent > 0 {
				recs, err := hist.Recent(ctx, recent)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					fmt.Println("No answers recorded.")
					return nil
				}
				w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "TIME\tSOURCE\tLATENCY\tQUERY")
				for _, r := range recs {
					query := r.Query
					if len(query) > 60 {
						query = query[:60] + "..."
					}
					fmt.Fprintf(w, "%s\t%s\t%dms\t%s\n",
						r.CreatedAt.Format("2006-01-02T15:04:05"), r.Provenance, r.LatencyMs, query)
				}
				return w.Flush()
			}

			summaries, err := hist.Summary(ctx)
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Println("No answers recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tANSWERS\tAVG LATENCY")
			for _, s := range summaries {
				fmt.Fprintf(w, "%s\t%d\t%.0fms\n", s.Provenance, s.Count, s.AvgLatencyMs)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "meddesk.yaml", "path to config file")
	cmd.Flags().IntVar(&recent, "recent", 0, "show the N most recent answers instead of the summary")
	return cmd
}
