package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/seedbed/humus"
	"github.com/seedbed/humus/pkg/git"
	"github.com/spf13/cobra"
)

var commitMsg string

// commitCmd commits staged changes directly, bypassing the per-note
// auto-commit path. Useful after manual edits in the vault.
var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit staged changes",
	Long:  `Commit staged changes to the underlying Git repository.`,
	Run: func(cmd *cobra.Command, args []string) {
		wd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		root, err := humus.FindVaultRoot(wd)
		if err != nil {
			fatal("Not a humus vault", err)
		}

		client := git.NewClient(root, "", slog.Default())
		if !client.IsRepo() {
			fatal("Not a git repository", fmt.Errorf("no .git in %s", root))
		}

		if err := client.Commit(humus.AppendFooter(commitMsg)); err != nil {
			fatal("Failed to commit", err)
		}

		fmt.Println("Committed changes.")
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
	commitCmd.Flags().StringVarP(&commitMsg, "message", "m", "", "Commit message")
	commitCmd.MarkFlagRequired("message")
}
