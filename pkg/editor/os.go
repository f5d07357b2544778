package editor

import (
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
)

// skipDirs are directory names not worth enumerating in a project tree.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".cache":       true,
	"dist":         true,
	"build":        true,
}

// DirProject enumerates files under a root directory, standing in for the
// host's project file list when the engine runs from the CLI.
type DirProject struct {
	root string
}

// NewDirProject creates an enumerator rooted at dir.
func NewDirProject(dir string) *DirProject {
	return &DirProject{root: dir}
}

// List walks the tree, skipping VCS and build directories. File URLs are
// absolute paths.
func (p *DirProject) List(ctx context.Context) ([]ProjectFile, error) {
	var files []ProjectFile
	err := filepath.WalkDir(p.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != p.root {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		files = append(files, ProjectFile{Name: d.Name(), URL: abs})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ReadFile reads the file at the enumerated URL (an absolute path).
func (p *DirProject) ReadFile(ctx context.Context, url string) ([]byte, error) {
	return os.ReadFile(url)
}

var (
	_ FileEnumerator = (*DirProject)(nil)
	_ FileSystem     = (*DirProject)(nil)
)

// ShellTerminal runs install commands through the local shell. It is the
// CLI's terminal collaborator; editor hosts supply their own.
type ShellTerminal struct {
	Dir string // working directory for commands; empty means inherit
}

// IsOpen always reports true: a shell needs no window.
func (t *ShellTerminal) IsOpen() bool { return true }

// Open is a no-op for the shell terminal.
func (t *ShellTerminal) Open() error { return nil }

// Execute runs the command via "sh -c" and waits for completion.
func (t *ShellTerminal) Execute(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = t.Dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

var _ Terminal = (*ShellTerminal)(nil)
