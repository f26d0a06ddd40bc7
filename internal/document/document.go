// Package document finds timeline blocks inside Markdown. Both surface
// forms share the same line grammar once the fence or span markers are
// stripped:
//
//	```chronos
//	- [2020] Fenced block
//	```
//
//	Inline: `chronos - [2020~2021] Inline span`
package document

import (
	"bytes"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdparser "github.com/gomarkdown/markdown/parser"

	appLog "chronos/internal/log"
	"chronos/internal/model"
	"chronos/internal/timeline"
)

// Language is the fence info string and inline span keyword.
const Language = "chronos"

type Form string

const (
	FormFenced Form = "fenced"
	FormInline Form = "inline"
)

// Block is one timeline source found in a document.
type Block struct {
	Form   Form
	Source string
	// Line is the 1-based document line of the block's first DSL line,
	// or 0 when it could not be located.
	Line int
}

// Scan returns every timeline block in doc, in document order.
func Scan(doc []byte) []Block {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	root := markdown.Parse(doc, p)

	loc := &locator{doc: doc}
	var blocks []Block

	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.CodeBlock:
			if !n.IsFenced || !isChronosInfo(n.Info) {
				return ast.GoToNext
			}
			src := strings.TrimRight(string(n.Literal), "\n")
			blocks = append(blocks, Block{
				Form:   FormFenced,
				Source: src,
				Line:   loc.find(n.Literal),
			})
		case *ast.Code:
			src, ok := inlineSource(n.Literal)
			if !ok {
				return ast.GoToNext
			}
			blocks = append(blocks, Block{
				Form:   FormInline,
				Source: src,
				Line:   loc.find(n.Literal),
			})
		}
		return ast.GoToNext
	})

	appLog.Debug("document scan completed", "block_count", len(blocks))
	return blocks
}

// Compiled pairs a block with its parse outcome.
type Compiled struct {
	Block  Block
	Result model.ParseResult
	Err    error
}

// Compile scans doc and parses every block independently. A failing block
// does not affect the others.
func Compile(doc []byte, opts timeline.Options) []Compiled {
	blocks := Scan(doc)
	out := make([]Compiled, 0, len(blocks))
	for _, b := range blocks {
		res, err := timeline.Parse(b.Source, opts)
		out = append(out, Compiled{Block: b, Result: res, Err: err})
	}
	return out
}

func isChronosInfo(info []byte) bool {
	fields := strings.Fields(string(info))
	return len(fields) > 0 && strings.EqualFold(fields[0], Language)
}

func inlineSource(literal []byte) (string, bool) {
	s := string(literal)
	if !strings.HasPrefix(s, Language) {
		return "", false
	}
	rest := s[len(Language):]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// locator maps literals back to document line numbers. It searches
// forward from the previous hit so repeated snippets resolve in order.
type locator struct {
	doc    []byte
	cursor int
}

func (l *locator) find(literal []byte) int {
	if len(literal) == 0 {
		return 0
	}
	idx := bytes.Index(l.doc[l.cursor:], literal)
	if idx < 0 {
		return 0
	}
	abs := l.cursor + idx
	l.cursor = abs + len(literal)
	return bytes.Count(l.doc[:abs], []byte("\n")) + 1
}
