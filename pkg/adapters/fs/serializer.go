package fs

import (
	"bytes"
	"errors"
	"fmt"

	adrg "github.com/adrg/frontmatter"

	"github.com/seedbed/humus/pkg/core"
	"github.com/seedbed/humus/pkg/frontmatter"
)

// decodeNote turns raw file bytes into a Note, stamping the file
// identifier onto format errors so callers can point the author at the
// offending file.
//
// Canonical notes use YAML frontmatter delimited by "---" and go
// through the strict codec. Files imported from other generators may
// carry TOML ("+++") or JSON (";;;") blocks; those are accepted on the
// read path for compatibility. Writes are always canonical YAML.
func decodeNote(id string, data []byte) (core.Note, error) {
	if bytes.HasPrefix(data, []byte("+++")) || bytes.HasPrefix(data, []byte(";;;")) {
		return decodeForeign(id, data)
	}

	n, err := frontmatter.Decode(data)
	if err != nil {
		var ferr *frontmatter.MetadataFormatError
		if errors.As(err, &ferr) {
			ferr.File = id
		}
		return core.Note{}, err
	}
	n.ID = id
	return n, nil
}

// decodeForeign reads TOML/JSON frontmatter via the adrg parser.
// Byte offsets are not recoverable from it, so format errors point at
// the start of the document.
func decodeForeign(id string, data []byte) (core.Note, error) {
	var meta map[string]any
	body, err := adrg.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return core.Note{}, &frontmatter.MetadataFormatError{File: id, Offset: 0, Err: err}
	}

	n := noteFromMeta(meta)
	n.ID = id
	n.Body = string(body)
	return n, nil
}

// noteFromMeta lifts the core contract fields out of a raw metadata map.
func noteFromMeta(meta map[string]any) core.Note {
	var n core.Note
	if len(meta) == 0 {
		return n
	}

	extra := make(map[string]any, len(meta))
	for k, v := range meta {
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				n.Title = s
				continue
			}
		case "layout":
			if s, ok := v.(string); ok {
				n.Layout = s
				continue
			}
		case "tags":
			if tags, ok := stringList(v); ok {
				n.Tags = tags
				continue
			}
		}
		extra[k] = v
	}
	if len(extra) > 0 {
		n.Extra = extra
	}
	return n
}

func stringList(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		tags := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				s = fmt.Sprintf("%v", item)
			}
			tags = append(tags, s)
		}
		return tags, true
	}
	return nil, false
}

// encodeNote serializes a note in canonical form.
func encodeNote(n core.Note) ([]byte, error) {
	return frontmatter.Encode(n)
}
