package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/seedbed/humus"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a note from the vault",
	Long:  `Delete permanently removes a note from the vault and stages the deletion in Git.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
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

		if err := service.DeleteNote(context.Background(), id); err != nil {
			fatal("Failed to delete note", err)
		}

		fmt.Printf("Note deleted: %s\n", id)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
