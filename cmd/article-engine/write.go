// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/backend"
	"github.com/pdiddy/article-engine/internal/compose"
	"github.com/pdiddy/article-engine/internal/conversation"
	"github.com/pdiddy/article-engine/internal/knowledge"
	"github.com/pdiddy/article-engine/internal/output"
	"github.com/pdiddy/article-engine/internal/research"
	"github.com/pdiddy/article-engine/internal/secrets"
	"github.com/pdiddy/article-engine/internal/wiki"
	"github.com/pdiddy/article-engine/pkg/types"
)

const (
	defaultModel     = "anthropic/claude-3-haiku"
	defaultUserAgent = "article-engine/0.1"
)

var writeCmd = &cobra.Command{
	Use:   "write <topic>",
	Short: "Research a topic and write an article of a targeted length",
	Long: `Write runs the full pipeline for a topic: related-topic lookup, outline
and perspective generation, per-perspective Q&A, section planning, and
iterative section generation until the word target is met or the iteration
cap is reached.

A partial article (target not reached, or interrupted with Ctrl-C) is still
written out with its status recorded in the metadata sidecar.`,
	Args: cobra.ExactArgs(1),
	RunE: runWrite,
}

func init() {
	writeCmd.Flags().Int("words", 1000, "target word count")
	writeCmd.Flags().Int("max-iterations", 10, "maximum generation iterations")
	writeCmd.Flags().Int("perspectives", 5, "maximum research perspectives")
	writeCmd.Flags().String("model", "", "generation model (default "+defaultModel+")")
	writeCmd.Flags().String("api-key", "", "OpenRouter API key (default: .secrets/ or OPENROUTER_API_KEY)")
	writeCmd.Flags().String("format", "text", "output format: text, markdown, json, or html")
	writeCmd.Flags().String("output-dir", "output/articles", "directory for written articles")
	writeCmd.Flags().Duration("timeout", 90*time.Second, "per-call generation timeout")
	writeCmd.Flags().Bool("no-lookup", false, "skip the Wikipedia related-topic lookup")
	writeCmd.Flags().Bool("archive", false, "save the run to the article archive")
	writeCmd.Flags().String("archive-dir", "archive", "base directory for the article archive")

	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	topic := args[0]
	cfg := writeConfig(cmd)

	gen, err := backend.NewOpenRouter(cfg.Backend)
	if err != nil {
		return err
	}

	var lookup wiki.Lookup
	if noLookup, _ := cmd.Flags().GetBool("no-lookup"); !noLookup {
		lookup = wiki.NewClient("", cfg.Research.HTTPConfig)
	}

	composer := compose.New(gen,
		research.NewStage(gen, lookup, cfg.Research),
		conversation.NewStage(gen, cfg.Conversation),
		cfg.Compose)

	// Ctrl-C aborts between sections; committed sections are kept.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	article, entries, err := composer.Run(ctx, topic, os.Stderr)
	if err != nil {
		return err
	}

	path, err := output.Write(article, cfg.Output)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d words, %s)\n", path, article.ActualWords, article.Status)

	if doArchive, _ := cmd.Flags().GetBool("archive"); doArchive {
		store, err := knowledge.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		runID, err := store.Save(context.Background(), article, entries)
		if err != nil {
			return fmt.Errorf("archiving run: %w", err)
		}
		fmt.Printf("archived as run %d\n", runID)
	}
	return nil
}

// writeConfig assembles the pipeline config from flags, viper, and secrets.
func writeConfig(cmd *cobra.Command) types.PipelineConfig {
	words, _ := cmd.Flags().GetInt("words")
	maxIter, _ := cmd.Flags().GetInt("max-iterations")
	maxPerspectives, _ := cmd.Flags().GetInt("perspectives")
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	format, _ := cmd.Flags().GetString("format")
	outDir, _ := cmd.Flags().GetString("output-dir")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	archiveDir, _ := cmd.Flags().GetString("archive-dir")

	if model == "" {
		model = viper.GetString("backend.model")
	}
	if model == "" {
		model = defaultModel
	}

	httpTimeout := viper.GetDuration("research.timeout")
	if httpTimeout <= 0 {
		httpTimeout = 30 * time.Second
	}
	userAgent := viper.GetString("research.user_agent")
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return types.PipelineConfig{
		Backend: types.BackendConfig{
			Model:   model,
			APIKey:  secretDefault(secrets.OpenRouterKey, "OPENROUTER_API_KEY", apiKey),
			BaseURL: viper.GetString("backend.base_url"),
			Timeout: timeout,
		},
		Research: types.ResearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   httpTimeout,
				UserAgent: userAgent,
			},
			MaxRelatedTopics: viper.GetInt("research.max_related_topics"),
			MaxPerspectives:  maxPerspectives,
		},
		Conversation: types.ConversationConfig{
			Concurrency: viper.GetInt("conversation.concurrency"),
		},
		Compose: types.ComposeConfig{
			TargetWords:   words,
			MaxIterations: maxIter,
		},
		Output: types.OutputConfig{
			Dir:    outDir,
			Format: types.OutputFormat(format),
		},
		Archive: types.ArchiveConfig{
			Dir: archiveDir,
		},
	}
}
