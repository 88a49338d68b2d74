package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/seedbed/humus"
	"github.com/seedbed/humus/pkg/core"
	"github.com/spf13/cobra"
)

var (
	writeID      string
	writeTitle   string
	writeLayout  string
	writeTags    []string
	writeContent string
	changeReason string
	writeType    string
	writeScope   string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write a note",
	Long:  `Create or update a note with the given ID, metadata, and body.`,
	Run: func(cmd *cobra.Command, args []string) {
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

		ctx := context.WithValue(context.Background(), core.ChangeReasonKey, buildChangeReason(writeID))

		note := core.Note{
			ID:     writeID,
			Title:  writeTitle,
			Layout: writeLayout,
			Tags:   writeTags,
			Body:   writeContent,
		}

		if err := service.SaveNote(ctx, note); err != nil {
			fatal("Failed to save note", err)
		}

		fmt.Printf("Note '%s' saved.\n", writeID)
	},
}

// buildChangeReason assembles the commit message from the semantic
// commit flags, falling back to a docs-scoped update message.
func buildChangeReason(id string) string {
	if writeType != "" {
		subject := changeReason
		if subject == "" {
			subject = fmt.Sprintf("update %s", id)
		}
		return humus.FormatChangeReason(writeType, writeScope, subject, "")
	}

	if changeReason != "" {
		return humus.AppendFooter(changeReason)
	}

	scope := "notes"
	if writeScope != "" {
		scope = writeScope
	}
	return humus.FormatChangeReason(humus.CommitTypeDocs, scope, fmt.Sprintf("update %s", id), "")
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeID, "id", "", "Note ID (vault-relative path without extension)")
	writeCmd.Flags().StringVar(&writeTitle, "title", "", "Note title")
	writeCmd.Flags().StringVar(&writeLayout, "layout", "", "Rendering layout name")
	writeCmd.Flags().StringSliceVar(&writeTags, "tags", nil, "Note tags (comma separated)")
	writeCmd.Flags().StringVar(&writeContent, "content", "", "Note body")
	writeCmd.Flags().StringVarP(&changeReason, "message", "m", "", "Change reason (audit note)")
	writeCmd.Flags().StringVarP(&writeType, "type", "t", "", "Change type (feat, fix, etc)")
	writeCmd.Flags().StringVarP(&writeScope, "scope", "s", "", "Commit scope")
	writeCmd.MarkFlagRequired("id")
}
