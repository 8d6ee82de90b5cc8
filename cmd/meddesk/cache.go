package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meddesk-ai/meddesk/pkg/cache"
	"github.com/meddesk-ai/meddesk/pkg/config"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the answer cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			s := cache.New(cfg.CachePath, nil)
			stats := s.Stats()
			fmt.Printf("Entries: %d\nHits:    %d\nMisses:  %d\n", stats.Entries, stats.Hits, stats.Misses)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}
			s := cache.New(cfg.CachePath, nil)
			if err := s.Clear(); err != nil {
				return err
			}
			fmt.Println("All cached answers cleared.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "meddesk.yaml", "path to config file")
	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
