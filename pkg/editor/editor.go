// Package editor defines the host-editor abstraction the completion engine
// is embedded behind.
//
// The engine never talks to a concrete editor. It consumes buffer text,
// cursor positions, and change deltas through the types here, and reaches
// host capabilities (project file listing, toasts, confirmation prompts,
// an attached terminal) through small interfaces. Hosts provide adapters;
// tests and the CLI use the in-memory implementations in this package.
package editor

import "context"

// Position is a cursor location in a buffer. Row and Column are zero-based;
// Column counts runes of the line's prefix, matching what hosts report for
// "characters before the cursor".
type Position struct {
	Row    int
	Column int
}

// Action is the kind of a buffer change.
type Action string

const (
	ActionInsert Action = "insert"
	ActionDelete Action = "delete"
)

// Delta describes a single buffer edit reported by the host.
type Delta struct {
	Action Action
	Start  Position
	End    Position
	Text   string // the inserted or removed text
}

// Buffer provides read access to the text of the active document.
type Buffer interface {
	// Line returns the text of the given row, or "" if out of range.
	Line(row int) string
	// LinesBefore returns rows [0, row) in order. Used by the context
	// resolver to scan backward from the cursor.
	LinesBefore(row int) []string
	// LineCount returns the number of lines in the buffer.
	LineCount() int
}

// ProjectFile is one entry from the host's project file enumeration.
type ProjectFile struct {
	Name string // base name, e.g. "package.json"
	URL  string // host-specific locator, e.g. an absolute path
}

// FileEnumerator lists all files in the current project, in the host's
// order. The manifest locator takes the first match by name.
type FileEnumerator interface {
	List(ctx context.Context) ([]ProjectFile, error)
}

// FileSystem reads file content by the URL a FileEnumerator returned.
type FileSystem interface {
	ReadFile(ctx context.Context, url string) ([]byte, error)
}

// Notifier displays a fire-and-forget transient message (a toast).
type Notifier interface {
	Notify(message string)
}

// Confirmer presents a blocking yes/no prompt to the user.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// Terminal is the optional process-execution collaborator used by the
// installer. Its absence degrades installs to notify-only.
type Terminal interface {
	IsOpen() bool
	Open() error
	Execute(ctx context.Context, command string) error
}
