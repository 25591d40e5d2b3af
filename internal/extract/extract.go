package extract

import (
	"strings"

	"github.com/sokinpui/diffadd/model"
)

// Content joins the text of every added line of p with "\n", walking hunks
// and their lines in diff order. A patch without additions yields "".
func Content(p model.FilePatch) string {
	var added []string
	for _, h := range p.Hunks {
		for _, l := range h.Lines {
			if l.Kind == model.LineAdded {
				added = append(added, l.Text)
			}
		}
	}
	return strings.Join(added, "\n")
}

// Files builds one ExtractedFile per patch that has a new path. Patches
// without one (deletions) are returned in skipped by their old path.
func Files(patches []model.FilePatch) (files []model.ExtractedFile, skipped []string) {
	for _, p := range patches {
		if p.NewPath == "" {
			skipped = append(skipped, p.OldPath)
			continue
		}
		files = append(files, model.ExtractedFile{
			Path:    p.NewPath,
			Content: Content(p),
		})
	}
	return files, skipped
}
