package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/seedbed/humus"
	"github.com/seedbed/humus/pkg/render"
	"github.com/spf13/cobra"
)

var renderHardWraps bool

// renderCmd previews a note body as an HTML fragment. Layout resolution
// stays with the external site generator; the fragment is emitted with
// the layout name in a comment so downstream tooling can pick it up.
var renderCmd = &cobra.Command{
	Use:   "render [id]",
	Short: "Render a note body to an HTML fragment",
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

		note, err := repo.Get(context.Background(), id)
		if err != nil {
			fatal("Failed to read note", err)
		}

		r := render.New(render.Options{
			HardWraps: renderHardWraps,
			Unsafe:    true, // note bodies are author-controlled
		})

		frag, err := r.RenderNote(note)
		if err != nil {
			fatal("Failed to render note", err)
		}

		if frag.Layout != "" {
			fmt.Printf("<!-- layout: %s -->\n", frag.Layout)
		}
		os.Stdout.Write(frag.HTML)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().BoolVar(&renderHardWraps, "hard-wraps", false, "Render single newlines as <br>")
}
