package core

// Note is the central entity of the domain.
// It represents a single knowledge-base document: structured metadata
// plus a free-form body. The body is opaque text; code samples embedded
// in it are illustrative content, never executable units of this system.
type Note struct {
	// ID is the vault-relative path without the .md extension.
	// It is a storage concern and never appears inside the file itself.
	ID string

	// Title is a short human-readable name for the note.
	Title string

	// Layout names the rendering template an external site generator
	// should use. The layout -> template mapping is not resolved here.
	Layout string

	// Tags are free-text category labels. List semantics: input order
	// is preserved so a decode/encode round-trip is faithful.
	Tags []string

	// Extra holds frontmatter keys outside the core contract.
	// They are preserved verbatim for forward compatibility.
	Extra map[string]any

	// Body is the markdown content below the metadata block.
	Body string
}

// HasTag reports whether the note carries the given tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasMetadata reports whether the note carries any metadata at all.
// A note decoded from a file without a frontmatter block has none.
func (n Note) HasMetadata() bool {
	return n.Title != "" || n.Layout != "" || len(n.Tags) > 0 || len(n.Extra) > 0
}

// Meta flattens the note metadata into a single map, core fields included.
// Zero-valued core fields are omitted so the map mirrors the original
// frontmatter block.
func (n Note) Meta() map[string]any {
	meta := make(map[string]any, len(n.Extra)+3)
	for k, v := range n.Extra {
		meta[k] = v
	}
	if n.Title != "" {
		meta["title"] = n.Title
	}
	if n.Layout != "" {
		meta["layout"] = n.Layout
	}
	if len(n.Tags) > 0 {
		meta["tags"] = append([]string(nil), n.Tags...)
	}
	return meta
}
