package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meddesk-ai/meddesk/pkg/config"
	"github.com/meddesk-ai/meddesk/pkg/kb"
	"github.com/meddesk-ai/meddesk/pkg/logging"
)

func newKBCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Inspect the analytics knowledge base",
	}

	loadProvider := func() (*kb.Provider, error) {
		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return nil, err
		}
		return kb.Load(cfg.KBPath, logging.New(cfg.Logging))
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the formatted context document",
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := loadProvider()
			if err != nil {
				return err
			}
			fmt.Println(provider.FormatContext())
			return nil
		},
	}

	searchCmd := &cobra.Command{
		Use:   "search [question]",
		Short: "Search the knowledge base for structured analytics data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := loadProvider()
			if err != nil {
				return err
			}
			results := provider.Search(args[0])
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "meddesk.yaml", "path to config file")
	cmd.AddCommand(showCmd, searchCmd)
	return cmd
}
