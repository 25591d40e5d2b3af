package parser

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/sokinpui/diffadd/model"
)

// Parse reads unified diff text into file patches, in diff order.
//
// Paths in the result have the diff's top-level prefix segment (a/, b/)
// removed. go-gitdiff already drops it for git-style diffs; for traditional
// "---/+++" diffs the first segment is stripped here.
func Parse(text string) ([]model.FilePatch, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse diff: %w", err)
	}

	gitStyle := isGitDiff(text)
	patches := make([]model.FilePatch, 0, len(files))
	for _, f := range files {
		p := model.FilePatch{
			OldPath:  f.OldName,
			NewPath:  f.NewName,
			IsNew:    f.IsNew,
			IsDelete: f.IsDelete,
			IsBinary: f.IsBinary,
		}
		if f.IsDelete {
			p.NewPath = ""
		}
		if !gitStyle {
			p.OldPath = stripFirstSegment(p.OldPath)
			p.NewPath = stripFirstSegment(p.NewPath)
		}
		for _, frag := range f.TextFragments {
			p.Hunks = append(p.Hunks, convertFragment(frag))
		}
		patches = append(patches, p)
	}
	return patches, nil
}

// ParseSource parses diff text that may be wrapped in Markdown. Content that
// does not start like a diff and has fenced diff blocks is reduced to those
// blocks, parsed in order.
func ParseSource(content string) ([]model.FilePatch, error) {
	if startsLikeDiff(content) {
		return Parse(content)
	}
	blocks, err := ExtractDiffBlocks([]byte(content))
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	if len(blocks) == 0 {
		return Parse(content)
	}

	var patches []model.FilePatch
	for i, block := range blocks {
		p, err := Parse(block)
		if err != nil {
			return nil, fmt.Errorf("diff block %d: %w", i+1, err)
		}
		patches = append(patches, p...)
	}
	return patches, nil
}

func convertFragment(frag *gitdiff.TextFragment) model.Hunk {
	h := model.Hunk{
		Header: frag.Header(),
		Lines:  make([]model.Line, 0, len(frag.Lines)),
	}
	for _, l := range frag.Lines {
		h.Lines = append(h.Lines, model.Line{
			Kind: lineKind(l.Op),
			Text: strings.TrimSuffix(l.Line, "\n"),
		})
	}
	return h
}

func lineKind(op gitdiff.LineOp) model.LineKind {
	switch op {
	case gitdiff.OpAdd:
		return model.LineAdded
	case gitdiff.OpDelete:
		return model.LineDeleted
	default:
		return model.LineContext
	}
}

// startsLikeDiff reports whether the first non-blank line is a diff or mail
// header. Raw diffs of Markdown files can hold indented fences in context
// lines, so they must not go through the Markdown parser.
func startsLikeDiff(text string) bool {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, prefix := range []string{"diff ", "--- ", "From ", "Index: "} {
			if strings.HasPrefix(line, prefix) {
				return true
			}
		}
		return false
	}
	return false
}

func isGitDiff(text string) bool {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "diff --git ") {
			return true
		}
	}
	return false
}

// stripFirstSegment turns "b/dir/file.txt" into "dir/file.txt". Names with
// no directory part are returned unchanged.
func stripFirstSegment(name string) string {
	if i := strings.Index(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
