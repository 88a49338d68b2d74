// Package frontmatter implements the note-document format: an optional
// leading YAML metadata block bounded by "---" lines, followed by a
// free-form body. Decoding is a single-pass, stateless transformation;
// the body is never mutated or reinterpreted, even on error paths.
package frontmatter

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/seedbed/humus/pkg/core"
)

// Delimiter is the metadata block boundary marker, on its own line.
const Delimiter = "---"

// MetadataFormatError reports an undecodable metadata block: either the
// block was started but never closed, or the YAML inside it failed to
// parse. Offset is the byte offset within the document where the
// failure was detected; File identifies the source when known.
type MetadataFormatError struct {
	File   string
	Offset int
	Err    error
}

func (e *MetadataFormatError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: invalid metadata block at byte %d: %v", e.File, e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid metadata block at byte %d: %v", e.Offset, e.Err)
}

func (e *MetadataFormatError) Unwrap() error { return e.Err }

// envelope maps the core frontmatter contract onto YAML. Unknown keys
// land in Extra so they survive a round-trip.
type envelope struct {
	Title  string         `yaml:"title,omitempty"`
	Layout string         `yaml:"layout,omitempty"`
	Tags   []string       `yaml:"tags,omitempty"`
	Extra  map[string]any `yaml:",inline"`
}

// Decode splits the raw document into metadata block and body and
// decodes the metadata into a Note.
//
// A document that does not start with the delimiter has no metadata:
// the entire input becomes the body and all metadata fields stay empty.
// A document that starts the block but never closes it, or closes it
// around unparsable YAML, fails with a MetadataFormatError and no Note.
func Decode(data []byte) (core.Note, error) {
	block, body, found, err := split(data)
	if err != nil {
		return core.Note{}, err
	}
	if !found {
		return core.Note{Body: string(data)}, nil
	}

	var env envelope
	if err := yaml.Unmarshal(block.data, &env); err != nil {
		return core.Note{}, &MetadataFormatError{
			Offset: block.start + yamlErrorOffset(block.data, err),
			Err:    err,
		}
	}

	return core.Note{
		Title:  env.Title,
		Layout: env.Layout,
		Tags:   env.Tags,
		Extra:  env.Extra,
		Body:   string(body),
	}, nil
}

// Parse reads a full document from r and decodes it.
// Notes are small, human-authored files; reading them into memory is fine.
func Parse(r io.Reader) (core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Note{}, err
	}
	return Decode(data)
}

// Encode serializes the note canonically: delimiter, YAML with a fixed
// field order (title, layout, tags, then extra keys sorted), 2-space
// indent, delimiter, body verbatim. Decoding canonical output and
// encoding it again reproduces the input byte for byte.
func Encode(n core.Note) ([]byte, error) {
	var buf bytes.Buffer

	if n.HasMetadata() {
		buf.WriteString(Delimiter + "\n")

		node, err := metaNode(n)
		if err != nil {
			return nil, err
		}
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(node); err != nil {
			enc.Close()
			return nil, fmt.Errorf("encode metadata: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode metadata: %w", err)
		}

		buf.WriteString(Delimiter + "\n")
	}

	buf.WriteString(n.Body)
	return buf.Bytes(), nil
}

// block is the located metadata region of a document.
type metaBlock struct {
	data  []byte
	start int // byte offset of the block within the document
}

// split locates the metadata block. found is false when the document
// does not open with a delimiter line; err is non-nil when the block is
// started but not terminated.
func split(data []byte) (block metaBlock, body []byte, found bool, err error) {
	rest, ok := cutDelimiterLine(data)
	if !ok {
		return metaBlock{}, nil, false, nil
	}
	start := len(data) - len(rest)

	// Scan line by line for the closing delimiter.
	off := 0
	for off < len(rest) {
		lineEnd := bytes.IndexByte(rest[off:], '\n')
		var line []byte
		next := len(rest)
		if lineEnd >= 0 {
			line = rest[off : off+lineEnd]
			next = off + lineEnd + 1
		} else {
			line = rest[off:]
		}
		if isDelimiterLine(line) {
			return metaBlock{data: rest[:off], start: start}, rest[next:], true, nil
		}
		off = next
	}

	return metaBlock{}, nil, false, &MetadataFormatError{
		Offset: len(data),
		Err:    fmt.Errorf("metadata block started but not terminated"),
	}
}

// cutDelimiterLine strips a leading delimiter line, tolerating CRLF.
func cutDelimiterLine(data []byte) ([]byte, bool) {
	if rest, ok := bytes.CutPrefix(data, []byte(Delimiter+"\n")); ok {
		return rest, true
	}
	if rest, ok := bytes.CutPrefix(data, []byte(Delimiter+"\r\n")); ok {
		return rest, true
	}
	return nil, false
}

func isDelimiterLine(line []byte) bool {
	return string(bytes.TrimSuffix(line, []byte("\r"))) == Delimiter
}

var yamlLineRe = regexp.MustCompile(`line (\d+):`)

// yamlErrorOffset maps a yaml error back to the byte offset of the
// offending line within the block. yaml.v3 reports 1-based line numbers
// in its messages; when none is present the block start is reported.
func yamlErrorOffset(block []byte, err error) int {
	m := yamlLineRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	line, convErr := strconv.Atoi(m[1])
	if convErr != nil || line < 1 {
		return 0
	}

	off := 0
	for n := 1; n < line; n++ {
		i := bytes.IndexByte(block[off:], '\n')
		if i < 0 {
			return 0
		}
		off += i + 1
	}
	return off
}

// metaNode builds the canonical metadata mapping. yaml.Node is used
// instead of a map so the key order is deterministic.
func metaNode(n core.Note) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	appendField := func(key string, value any) error {
		k := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		v := &yaml.Node{}
		if err := v.Encode(value); err != nil {
			return fmt.Errorf("encode metadata field %q: %w", key, err)
		}
		node.Content = append(node.Content, k, v)
		return nil
	}

	if n.Title != "" {
		if err := appendField("title", n.Title); err != nil {
			return nil, err
		}
	}
	if n.Layout != "" {
		if err := appendField("layout", n.Layout); err != nil {
			return nil, err
		}
	}
	if len(n.Tags) > 0 {
		if err := appendField("tags", n.Tags); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(n.Extra))
	for k := range n.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := appendField(k, n.Extra[k]); err != nil {
			return nil, err
		}
	}

	return node, nil
}
