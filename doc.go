// Package humus is the Composition Root for the humus toolkit.
//
// It connects the core note domain with the infrastructure adapters
// (the filesystem vault, Git versioning) using the Hexagonal
// Architecture pattern.
//
// Philosophy:
//
// Humus treats a directory of knowledge-base notes as a small document
// store. A note is a UTF-8 text file: an optional YAML frontmatter
// block (title, layout, tags, plus free-form extras) followed by an
// opaque markdown body. Humus parses, validates, stores, watches, and
// previews those notes; actually rendering them into a site stays with
// an external static-site generator that resolves the `layout` names.
//
// Features:
//
//   - **Strict frontmatter codec**: one MetadataFormatError taxonomy
//     with file and byte offset; canonical encoding round-trips.
//   - **Vault storage (FS + Git)**: atomic writes, metadata index
//     cache, optional Git history with semantic commit messages.
//   - **Reactive**: fsnotify-based watching with glob patterns.
//   - **Typed retrieval**: generic wrapper for type-safe frontmatter.
//   - **Lint & preview**: contract validation and GFM HTML fragments.
//
// Usage:
//
//	svc, err := humus.New("./notes",
//		humus.WithAutoInit(true),
//		humus.WithLogger(logger),
//	)
//
//	err = svc.SaveNote(ctx, core.Note{
//		ID:     "guides/ci-setup",
//		Title:  "Setting up CI",
//		Layout: "note",
//		Tags:   []string{"ci"},
//		Body:   "....",
//	})
package humus
