package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/seedbed/humus"
	"github.com/seedbed/humus/pkg/core"
	"github.com/spf13/cobra"
)

var (
	listJSON  bool
	filterTag string
	listGlob  string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes in the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		wd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		root, err := humus.FindVaultRoot(wd)
		if err != nil {
			fatal("Not a humus vault", err)
		}

		service, err := humus.New(root,
			humus.WithAdapter(adapter),
			humus.WithVersioning(!nover),
			humus.WithMustExist(true),
			humus.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize humus", err)
		}

		notes, err := service.ListNotesGlob(context.Background(), listGlob)
		if err != nil {
			fatal("Failed to list notes", err)
		}

		var filtered []core.Note
		for _, note := range notes {
			if filterTag != "" && !note.HasTag(filterTag) {
				continue
			}
			filtered = append(filtered, note)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(filtered); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, note := range filtered {
			title := ""
			if note.Title != "" {
				title = fmt.Sprintf("- %s", note.Title)
			}
			fmt.Printf("%s %s\n", note.ID, title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&filterTag, "tag", "", "Filter notes by tag")
	listCmd.Flags().StringVar(&listGlob, "glob", "", "Restrict to IDs matching a glob pattern (e.g. 'guides/**')")
}
