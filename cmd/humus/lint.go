package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/seedbed/humus"
	"github.com/seedbed/humus/pkg/lint"
	"github.com/spf13/cobra"
)

var lintStrict bool

// lintCmd checks every note against the metadata contract.
var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check notes against the metadata contract",
	Long: `Lint walks the vault and reports notes that are not publishable:
missing title or layout, blank tags, or IDs that are not clean slugs.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		wd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		root, err := humus.FindVaultRoot(wd)
		if err != nil {
			fatal("Not a humus vault", err)
		}

		repo, err := humus.Init(root,
			humus.WithAdapter(adapter),
			humus.WithVersioning(!nover),
			humus.WithMustExist(true),
			humus.WithReadOnly(true),
			humus.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize humus", err)
		}

		issues, err := lint.Vault(context.Background(), repo)
		if err != nil {
			fatal("Lint failed", err)
		}

		errors := 0
		for _, issue := range issues {
			fmt.Println(issue)
			if issue.Severity == lint.SeverityError {
				errors++
			}
		}

		if errors > 0 || (lintStrict && len(issues) > 0) {
			os.Exit(1)
		}
		if len(issues) == 0 {
			fmt.Println("All notes OK.")
		}
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Exit non-zero on warnings too")
}
