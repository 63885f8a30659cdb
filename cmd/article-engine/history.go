// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pdiddy/article-engine/internal/knowledge"
	"github.com/pdiddy/article-engine/internal/output"
	"github.com/pdiddy/article-engine/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the archive of previous runs",
	Long: `History reads the SQLite article archive written by "write --archive".
Use subcommands to list recent runs, search archived sections and Q&A
entries, or print an archived article.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE:  runHistoryList,
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over archived sections and conversations",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistorySearch,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print an archived article as plain text",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.PersistentFlags().String("archive-dir", "archive", "base directory for the article archive")
	historyListCmd.Flags().Int("limit", 20, "maximum runs to list")

	historyCmd.AddCommand(historyListCmd, historySearchCmd, historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openStore(cmd *cobra.Command) (*knowledge.Store, error) {
	dir, _ := cmd.Flags().GetString("archive-dir")
	return knowledge.NewStore(types.ArchiveConfig{Dir: dir})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Recent(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	fmt.Printf("%-4s  %-40s  %-9s  %-11s  %s\n", "ID", "Topic", "Words", "Status", "Created")
	for _, r := range runs {
		topic := r.Topic
		if len(topic) > 40 {
			topic = topic[:37] + "..."
		}
		fmt.Printf("%-4d  %-40s  %4d/%-4d  %-11s  %s\n",
			r.ID, topic, r.ActualWords, r.TargetWords, r.Status, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runHistorySearch(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	hits, err := store.Search(context.Background(), args[0])
	if err != nil {
		return err
	}
	if len(hits) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, h := range hits {
		fmt.Printf("run %d (%s) %s %q: %s\n", h.RunID, h.Topic, h.Kind, h.Label, h.Snippet)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	runID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	article, err := store.Article(context.Background(), runID)
	if err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, output.Text(article))
	return nil
}
