package main

import (
	"fmt"
	"strings"

	"github.com/seedbed/humus"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of humus",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("humus version %s\n", strings.TrimSpace(humus.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
