package editor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"scanlog/internal/ports"
)

// Opener implements ports.FileOpener.
// By default exported files go to the desktop's associated application
// (a spreadsheet for CSV); WithEditor switches to the user's text editor.
type Opener struct {
	useEditor bool
	goos      string
	getenv    func(string) string
	lookPath  func(string) (string, error)
}

// Ensure Opener implements ports.FileOpener
var _ ports.FileOpener = (*Opener)(nil)

// Option configures an Opener
type Option func(*Opener)

// WithEditor opens files in $EDITOR instead of the associated application
func WithEditor() Option {
	return func(o *Opener) { o.useEditor = true }
}

// NewOpener creates a new file opener
func NewOpener(opts ...Option) *Opener {
	o := &Opener{
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OpenFile opens a file and waits for the launcher to return
func (o *Opener) OpenFile(path string) error {
	cmd, err := o.Command(path)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Command returns an exec.Cmd for opening a file.
// This is useful for integrating with bubbletea's ExecProcess
func (o *Opener) Command(path string) (*exec.Cmd, error) {
	if o.useEditor {
		return o.editorCommand(path)
	}
	return o.systemCommand(path)
}

func (o *Opener) editorCommand(path string) (*exec.Cmd, error) {
	editor := o.findEditor()
	if editor == "" {
		return nil, fmt.Errorf("no editor found: set $EDITOR environment variable")
	}

	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, nil
}

func (o *Opener) systemCommand(path string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return exec.Command("open", path), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", path), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}

// findEditor returns the editor to use
func (o *Opener) findEditor() string {
	if editor := o.getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := o.getenv("VISUAL"); visual != "" {
		return visual
	}

	editors := []string{"nvim", "vim", "vi", "nano", "code"}
	for _, editor := range editors {
		if path, err := o.lookPath(editor); err == nil {
			return path
		}
	}

	return ""
}
