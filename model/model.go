package model

// LineKind classifies a line inside a hunk.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdded
	LineDeleted
)

// Line is a single hunk line. Text does not include the +, - or space marker.
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is one @@ block of a file patch.
type Hunk struct {
	Header string
	Lines  []Line
}

// FilePatch holds every hunk of one changed file, in diff order.
type FilePatch struct {
	OldPath  string
	NewPath  string // empty when the file was deleted
	IsNew    bool
	IsDelete bool
	IsBinary bool
	Hunks    []Hunk
}

// ExtractedFile is the added-only reconstruction of one changed file.
type ExtractedFile struct {
	Path    string // path inside the new tree, without the diff prefix segment
	Content string
}

// Summary holds the results of a run for display.
type Summary struct {
	OutputDir string
	Written   []string
	Skipped   []string
	Failed    []string
	Message   string
}
