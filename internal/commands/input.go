package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// errTerminalInput is returned when a document would be read from an
// interactive terminal.
var errTerminalInput = errors.New("no input provided (stdin is a terminal); pass a file or pipe markdown input")

// document is markdown read from a file or stdin.
type document struct {
	// Path is empty when the document came from stdin.
	Path    string
	Text    string
	ModTime time.Time
	Mode    os.FileMode
}

// readDocument reads path, or stdin when path is empty or "-". Stdin is
// refused when it is a terminal so the command never blocks on a prompt.
func readDocument(path string, stdin *os.File) (document, error) {
	if path == "" || path == "-" {
		if term.IsTerminal(int(stdin.Fd())) {
			return document{}, errTerminalInput
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return document{}, fmt.Errorf("read stdin: %w", err)
		}
		return document{Text: string(data)}, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return document{}, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return document{}, fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return document{}, fmt.Errorf("read document: %w", err)
	}

	return document{
		Path:    path,
		Text:    string(data),
		ModTime: info.ModTime(),
		Mode:    info.Mode().Perm(),
	}, nil
}

// writeDocument replaces the document's content, keeping its permissions.
func writeDocument(doc document, text string) error {
	mode := doc.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.WriteFile(doc.Path, []byte(text), mode); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
