// Package editor hands entry content to the user's own editor.
package editor

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Command returns the editor to launch: $VISUAL, then $EDITOR, then vi.
func Command() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return "vi"
}

// EditCmd builds the command that opens path in the editor. The editor
// setting may carry arguments, e.g. "code --wait".
func EditCmd(path string) (*exec.Cmd, error) {
	parts := strings.Fields(Command())
	if len(parts) == 0 {
		return nil, errors.New("editor: no editor configured")
	}
	args := append(parts[1:], path)
	cmd := exec.Command(parts[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// Streams overrides the terminal the editor is attached to. Nil fields keep
// the process defaults.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Session is one round trip through the editor: a temporary markdown file
// seeded with content and the command that opens it.
type Session struct {
	Cmd  *exec.Cmd
	path string
}

// Prepare writes content to a temporary file and builds the editor command
// for it. Callers run Cmd and then call Finish.
func Prepare(content string) (*Session, error) {
	f, err := os.CreateTemp("", "journal-*.md")
	if err != nil {
		return nil, err
	}
	path := f.Name()
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}
	cmd, err := EditCmd(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return &Session{Cmd: cmd, path: path}, nil
}

// Finish returns the edited content and removes the temporary file.
func (s *Session) Finish() (string, error) {
	defer os.Remove(s.path)
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Edit runs a whole session and returns the edited content.
func Edit(content string, streams Streams) (string, error) {
	s, err := Prepare(content)
	if err != nil {
		return "", err
	}
	if streams.In != nil {
		s.Cmd.Stdin = streams.In
	}
	if streams.Out != nil {
		s.Cmd.Stdout = streams.Out
	}
	if streams.Err != nil {
		s.Cmd.Stderr = streams.Err
	}
	if err := s.Cmd.Run(); err != nil {
		os.Remove(s.path)
		return "", err
	}
	return s.Finish()
}
