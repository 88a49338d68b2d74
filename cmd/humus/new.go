package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/goliatone/go-slug"
	"github.com/seedbed/humus"
	"github.com/seedbed/humus/pkg/core"
	"github.com/spf13/cobra"
)

var (
	newLayout string
	newTags   []string
	newDir    string
)

// newCmd creates a note from a human title, deriving the ID as a slug.
var newCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a note from a title",
	Long:  `Create an empty note whose ID is derived from the title (e.g. "Setting up CI" -> setting-up-ci).`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title := args[0]

		id, err := slug.Normalize(title)
		if err != nil {
			fatal("Failed to derive note ID from title", err)
		}
		if newDir != "" {
			id = newDir + "/" + id
		}

		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		service, err := humus.New(cwd,
			humus.WithAdapter(adapter),
			humus.WithVersioning(!nover),
			humus.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize humus", err)
		}

		ctx := context.WithValue(context.Background(), core.ChangeReasonKey,
			humus.FormatChangeReason(humus.CommitTypeDocs, "notes", fmt.Sprintf("create %s", id), ""))

		note := core.Note{
			ID:     id,
			Title:  title,
			Layout: newLayout,
			Tags:   newTags,
		}

		if err := service.SaveNote(ctx, note); err != nil {
			fatal("Failed to create note", err)
		}

		fmt.Println(id)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVar(&newLayout, "layout", "note", "Rendering layout name")
	newCmd.Flags().StringSliceVar(&newTags, "tags", nil, "Note tags (comma separated)")
	newCmd.Flags().StringVar(&newDir, "dir", "", "Vault subdirectory for the new note")
}
