package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/seedbed/humus"
	"github.com/seedbed/humus/pkg/frontmatter"
	"github.com/spf13/cobra"
)

var (
	readJSON bool
	readRaw  bool
)

var readCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Read a note",
	Long:  `Read a note by its ID. Outputs the markdown body by default, the full file with --raw, or a JSON object with --json.`,
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

		note, err := service.GetNote(context.Background(), id)
		if err != nil {
			fatal("Failed to read note", err)
		}

		switch {
		case readJSON:
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(note); err != nil {
				fatal("Failed to encode JSON", err)
			}
		case readRaw:
			data, err := frontmatter.Encode(note)
			if err != nil {
				fatal("Failed to encode note", err)
			}
			os.Stdout.Write(data)
		default:
			fmt.Print(note.Body)
		}
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
	readCmd.Flags().BoolVar(&readRaw, "raw", false, "Output the canonical file form (frontmatter + body)")
}
