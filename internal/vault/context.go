package vault

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// DefaultFileContextChars is the per-file truncation bound when building the
// derived context blob.
const DefaultFileContextChars = 20000

const (
	contextHeader = "=== KNOWLEDGE VAULT (USER UPLOADED) ===\n" +
		"The user has provided the following specific knowledge documents.\n" +
		"Use this information as the PRIMARY source of truth.\n\n"
	contextFooter = "=======================================\n"
)

// BuildContext deterministically concatenates the vault files into the
// derived context blob. The blob is pure derived data: never hand-edited,
// never authoritative in storage, always rebuilt when the file list changes
// or a project loads. Each file's content is truncated to maxFileChars
// (0 applies the default) to bound blob size.
func BuildContext(files []File, maxFileChars int) string {
	if len(files) == 0 {
		return ""
	}
	if maxFileChars <= 0 {
		maxFileChars = DefaultFileContextChars
	}

	var b strings.Builder
	b.WriteString(contextHeader)

	for _, f := range files {
		if strings.HasPrefix(f.Type, "image/") {
			// Images contribute their analysis, not their pixels.
			fmt.Fprintf(&b, "[Visual Asset: %s] (Type: %s)\n", f.Name, f.Type)
			if f.Description != "" {
				fmt.Fprintf(&b, "[Visual Analysis/Style]: %s\n", f.Description)
			}
			b.WriteString("\n")
			continue
		}

		content := f.Content
		if isMarkdown(f) {
			content = markdownToText(content)
		}
		content = truncate(content, maxFileChars)

		fmt.Fprintf(&b, "=== KNOWLEDGE SOURCE: %s ===\n%s\n==============================\n\n", f.Name, content)
	}

	b.WriteString(contextFooter)
	return b.String()
}

// truncate bounds s to max runes, marking the cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "...[TRUNCATED]"
}

// isMarkdown reports whether a file should be flattened from markdown.
func isMarkdown(f File) bool {
	if f.Type == "text/markdown" {
		return true
	}
	name := strings.ToLower(f.Name)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// markdownToText flattens markdown to plain text by walking the parsed AST
// and collecting text segments, so headings and emphasis markers don't leak
// into the generation context. Falls back to the raw source on parse issues.
func markdownToText(src string) string {
	source := []byte(src)
	reader := text.NewReader(source)
	doc := goldmark.DefaultParser().Parse(reader)

	var buf bytes.Buffer
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, isBlock := n.(*ast.Paragraph); isBlock {
				buf.WriteByte('\n')
			}
			if _, isHeading := n.(*ast.Heading); isHeading {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.CodeBlock:
			writeLines(&buf, source, t)
		case *ast.FencedCodeBlock:
			writeLines(&buf, source, t)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return src
	}
	return strings.TrimSpace(buf.String())
}

// writeLines copies a code block's raw lines into buf.
func writeLines(buf *bytes.Buffer, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
}
