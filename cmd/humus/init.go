package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/seedbed/humus"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a humus vault",
	Long:  `Initialize a new humus vault in the current directory. With versioning enabled this effectively runs 'git init'.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}

		_, err = humus.Init(cwd,
			humus.WithAutoInit(true),
			humus.WithVersioning(!nover),
			humus.WithAdapter(adapter),
			humus.WithLogger(slog.Default()),
		)
		if err != nil {
			fatal("Failed to initialize vault", err)
		}

		fmt.Println("Initialized humus vault in", cwd)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
