package vault

import (
	"strings"
	"testing"
	"time"
)

func TestBuildContext_Empty(t *testing.T) {
	if got := BuildContext(nil, 0); got != "" {
		t.Errorf("BuildContext(nil) = %q, want empty", got)
	}
	if got := BuildContext([]File{}, 0); got != "" {
		t.Errorf("BuildContext([]) = %q, want empty", got)
	}
}

func TestBuildContext_Deterministic(t *testing.T) {
	files := []File{testFile("a.txt", "alpha"), testFile("b.txt", "beta")}

	first := BuildContext(files, 0)
	second := BuildContext(files, 0)
	if first != second {
		t.Error("BuildContext should be deterministic")
	}
}

func TestBuildContext_Truncation(t *testing.T) {
	long := strings.Repeat("k", 100)
	files := []File{testFile("big.txt", long)}

	ctx := BuildContext(files, 40)
	if !strings.Contains(ctx, "...[TRUNCATED]") {
		t.Error("long content should be marked truncated")
	}
	if strings.Contains(ctx, long) {
		t.Error("full content should not survive truncation")
	}
	if !strings.Contains(ctx, strings.Repeat("k", 40)) {
		t.Error("truncated prefix should survive")
	}
}

func TestBuildContext_ImageFiles(t *testing.T) {
	img := File{
		ID:          NewFileID(),
		Name:        "logo.png",
		Type:        "image/png",
		Content:     "aGVsbG8=", // base64 payload must not leak into the context
		Description: "flat red logotype",
	}

	ctx := BuildContext([]File{img}, 0)
	if !strings.Contains(ctx, "[Visual Asset: logo.png]") {
		t.Error("image should contribute a visual-asset line")
	}
	if !strings.Contains(ctx, "flat red logotype") {
		t.Error("image analysis should be included")
	}
	if strings.Contains(ctx, "aGVsbG8=") {
		t.Error("base64 content should not be included")
	}
}

func TestBuildContext_MarkdownFlattened(t *testing.T) {
	md := NewFile("notes.md", "text/markdown", "# Heading\n\nSome *emphasised* point.", time.Now())

	ctx := BuildContext([]File{md}, 0)
	if strings.Contains(ctx, "# Heading") || strings.Contains(ctx, "*emphasised*") {
		t.Errorf("markdown markers leaked into context: %q", ctx)
	}
	if !strings.Contains(ctx, "Heading") || !strings.Contains(ctx, "emphasised") {
		t.Errorf("markdown text missing from context: %q", ctx)
	}
}

func TestMarkdownToText_CodeBlocks(t *testing.T) {
	got := markdownToText("intro\n\n```\ncode line\n```\n")
	if !strings.Contains(got, "code line") {
		t.Errorf("code block content missing: %q", got)
	}
}
