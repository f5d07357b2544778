package editor

import (
	"context"
	"strings"
	"sync"

	"github.com/mvilhena/depsense/pkg/errors"
)

// MemBuffer is a line-slice Buffer. The CLI builds one from file content;
// tests build one from literals.
type MemBuffer struct {
	lines []string
}

// NewMemBuffer creates a buffer from pre-split lines.
func NewMemBuffer(lines ...string) *MemBuffer {
	return &MemBuffer{lines: lines}
}

// NewMemBufferFromText splits text on newlines.
func NewMemBufferFromText(text string) *MemBuffer {
	return &MemBuffer{lines: strings.Split(text, "\n")}
}

func (b *MemBuffer) Line(row int) string {
	if row < 0 || row >= len(b.lines) {
		return ""
	}
	return b.lines[row]
}

func (b *MemBuffer) LinesBefore(row int) []string {
	if row < 0 {
		return nil
	}
	if row > len(b.lines) {
		row = len(b.lines)
	}
	out := make([]string, row)
	copy(out, b.lines[:row])
	return out
}

func (b *MemBuffer) LineCount() int { return len(b.lines) }

// SetLine replaces the text of a row, growing the buffer if needed.
func (b *MemBuffer) SetLine(row int, text string) {
	for row >= len(b.lines) {
		b.lines = append(b.lines, "")
	}
	b.lines[row] = text
}

var _ Buffer = (*MemBuffer)(nil)

// MemProject is an in-memory FileEnumerator plus FileSystem. Tests seed it
// with a package.json; the demo command uses it as a scratch project.
type MemProject struct {
	mu    sync.RWMutex
	files []ProjectFile
	data  map[string][]byte
}

// NewMemProject creates an empty project.
func NewMemProject() *MemProject {
	return &MemProject{data: make(map[string][]byte)}
}

// AddFile registers a file with its content. The URL doubles as the key
// for ReadFile.
func (p *MemProject) AddFile(name, url string, content []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, f := range p.files {
		if f.URL == url {
			p.files[i].Name = name
			p.data[url] = append([]byte(nil), content...)
			return
		}
	}
	p.files = append(p.files, ProjectFile{Name: name, URL: url})
	p.data[url] = append([]byte(nil), content...)
}

// RemoveFile unregisters a file.
func (p *MemProject) RemoveFile(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, f := range p.files {
		if f.URL == url {
			p.files = append(p.files[:i], p.files[i+1:]...)
			break
		}
	}
	delete(p.data, url)
}

func (p *MemProject) List(ctx context.Context) ([]ProjectFile, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]ProjectFile, len(p.files))
	copy(out, p.files)
	return out, nil
}

func (p *MemProject) ReadFile(ctx context.Context, url string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.data[url]
	if !ok {
		return nil, errors.New(errors.ErrCodeManifestRead, "no such file: %s", url)
	}
	return append([]byte(nil), data...), nil
}

var (
	_ FileEnumerator = (*MemProject)(nil)
	_ FileSystem     = (*MemProject)(nil)
)

// RecordingNotifier collects toasts for test assertions.
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages []string
}

func (n *RecordingNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Messages = append(n.Messages, message)
}

// Last returns the most recent toast, or "".
func (n *RecordingNotifier) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Messages) == 0 {
		return ""
	}
	return n.Messages[len(n.Messages)-1]
}

var _ Notifier = (*RecordingNotifier)(nil)

// StaticConfirmer answers every prompt with a fixed response.
type StaticConfirmer struct {
	Answer bool
	Asked  int
}

func (c *StaticConfirmer) Confirm(ctx context.Context, title, message string) (bool, error) {
	c.Asked++
	return c.Answer, nil
}

var _ Confirmer = (*StaticConfirmer)(nil)

// FakeTerminal records executed commands. FailWith, when set, makes every
// Execute return that error.
type FakeTerminal struct {
	mu       sync.Mutex
	open     bool
	Commands []string
	FailWith error
}

func (t *FakeTerminal) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.open
}

func (t *FakeTerminal) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.open = true
	return nil
}

func (t *FakeTerminal) Execute(ctx context.Context, command string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.FailWith != nil {
		return t.FailWith
	}
	t.Commands = append(t.Commands, command)
	return nil
}

var _ Terminal = (*FakeTerminal)(nil)
