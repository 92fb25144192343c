package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Build the corpus and print section statistics",
	Long: `Loads, chunks, and embeds every eligible document in the configured
folder, then prints what retrieval would see. Useful for checking chunking
and category tagging before an interview.`,
	RunE: runCorpus,
}

func runCorpus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if a.cfg.FolderPath == "" {
		return fmt.Errorf("folder_path is not set")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	corp := a.buildCorpus(ctx)

	byTitle := make(map[string]int)
	byTitleTokens := make(map[string]int)
	var order []string
	for _, s := range corp.Sections() {
		if _, seen := byTitle[s.Title]; !seen {
			order = append(order, s.Title)
		}
		byTitle[s.Title]++
		byTitleTokens[s.Title] += s.Tokens
	}

	fmt.Println()
	for _, title := range order {
		fmt.Printf("  %-40s %3d sections  %6d tokens\n", title, byTitle[title], byTitleTokens[title])
	}
	return nil
}
