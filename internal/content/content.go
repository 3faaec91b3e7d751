// Package content models documents at the pipeline boundary: YAML
// front matter plus a flat block tree of the body. The tree only
// distinguishes what the resolver needs — fenced declaration blocks
// versus everything else. Markdown rendering itself belongs to the
// host pipeline.
package content

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// BlockKind discriminates block tree nodes.
type BlockKind int

const (
	// KindText is opaque body content, passed through untouched.
	KindText BlockKind = iota
	// KindFenced is a ``` fenced block with an info tag.
	KindFenced
	// KindFragment is resolver output: raw HTML replacing a fenced block.
	KindFragment
)

// Block is one node of a document's body tree.
type Block struct {
	Kind BlockKind
	Tag  string // fenced info string, e.g. "map"
	Text string // body text without the fence lines
}

// Document is one source document as seen by the resolver.
type Document struct {
	Slug   string
	Title  string
	Meta   map[string]any
	Blocks []Block
}

const frontMatterFence = "---"

// Parse splits src into front matter and a block tree. The slug is the
// document's stable identifier within the site.
func Parse(slug string, src []byte) (*Document, error) {
	doc := &Document{Slug: slug}

	body := src
	if rest, ok := bytes.CutPrefix(src, []byte(frontMatterFence+"\n")); ok {
		fm, after, found := bytes.Cut(rest, []byte("\n"+frontMatterFence+"\n"))
		if !found {
			return nil, fmt.Errorf("document %q: unterminated front matter", slug)
		}
		meta := map[string]any{}
		if err := yaml.Unmarshal(fm, &meta); err != nil {
			return nil, fmt.Errorf("document %q: front matter: %w", slug, err)
		}
		doc.Meta = meta
		if title, ok := meta["title"].(string); ok {
			doc.Title = title
		}
		body = after
	}

	doc.Blocks = parseBlocks(string(body))
	return doc, nil
}

// parseBlocks walks the body line by line, cutting out fenced blocks
// and batching everything else into text blocks.
func parseBlocks(body string) []Block {
	var blocks []Block
	var text []string

	flush := func() {
		if len(text) > 0 {
			blocks = append(blocks, Block{Kind: KindText, Text: strings.Join(text, "\n")})
			text = nil
		}
	}

	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if tag, ok := strings.CutPrefix(strings.TrimSpace(line), "```"); ok && tag != "" {
			// collect until the closing fence; an unterminated fence
			// is left as text
			var fence []string
			closed := false
			j := i + 1
			for ; j < len(lines); j++ {
				if strings.TrimSpace(lines[j]) == "```" {
					closed = true
					break
				}
				fence = append(fence, lines[j])
			}
			if closed {
				flush()
				blocks = append(blocks, Block{
					Kind: KindFenced,
					Tag:  strings.TrimSpace(tag),
					Text: strings.Join(fence, "\n"),
				})
				i = j
				continue
			}
		}
		text = append(text, line)
	}
	flush()

	return blocks
}

// Render writes the block tree back out. Fragments are emitted raw;
// surviving fenced blocks are re-fenced so an unrecognized block
// round-trips byte for byte.
func (d *Document) Render() []byte {
	var buf bytes.Buffer
	for i, b := range d.Blocks {
		if i > 0 {
			buf.WriteByte('\n')
		}
		switch b.Kind {
		case KindFenced:
			buf.WriteString("```" + b.Tag + "\n")
			buf.WriteString(b.Text)
			buf.WriteString("\n```")
		default:
			buf.WriteString(b.Text)
		}
	}
	return buf.Bytes()
}
