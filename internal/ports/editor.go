package ports

import "os/exec"

// FileOpener opens an exported artifact for the user to inspect
type FileOpener interface {
	// OpenFile opens path and waits for the viewer to exit
	OpenFile(path string) error

	// Command returns the viewer process without starting it,
	// for callers such as bubbletea's ExecProcess that run it themselves
	Command(path string) (*exec.Cmd, error)
}
