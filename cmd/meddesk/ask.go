package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meddesk-ai/meddesk/pkg/cache"
	"github.com/meddesk-ai/meddesk/pkg/config"
	"github.com/meddesk-ai/meddesk/pkg/engine"
	"github.com/meddesk-ai/meddesk/pkg/extract"
	"github.com/meddesk-ai/meddesk/pkg/gemini"
	"github.com/meddesk-ai/meddesk/pkg/history"
	"github.com/meddesk-ai/meddesk/pkg/kb"
	"github.com/meddesk-ai/meddesk/pkg/logging"
)

func newAskCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer an analytics question against the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]

			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log := logging.New(cfg.Logging)
			defer func() { _ = log.Sync() }()

			// Medical-advice questions get the fixed notice; the engine only
			// sees analytics questions.
			if extract.Classify(query) == extract.KindMedical {
				fmt.Println(extract.MedicalNotice)
				return nil
			}

			provider, err := kb.Load(cfg.KBPath, log)
			if err != nil {
				return fmt.Errorf("load knowledge base: %w", err)
			}

			store := cache.New(cfg.CachePath, log)

			opts := engine.Options{
				RemoteTimeout:  cfg.Engine.RemoteTimeout,
				CooldownWindow: cfg.Engine.CooldownWindow,
				Logger:         log,
			}
			if cfg.Gemini.APIKey != "" {
				opts.Remote = gemini.New(cfg.Gemini)
			}
			if cfg.Engine.History {
				hist, err := history.New(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("init history: %w", err)
				}
				defer func() { _ = hist.Close() }()
				opts.Recorder = hist
			}

			eng := engine.New(store, opts)
			res := eng.GenerateAnswer(context.Background(), query, provider.FormatContext())

			fmt.Println(res.Text)
			fmt.Printf("\n[source: %s]\n", res.Provenance)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "meddesk.yaml", "path to config file")
	return cmd
}
