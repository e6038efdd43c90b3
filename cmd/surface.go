package main

import (
	"fmt"
	"io"

	"github.com/desertthunder/nisu/internal/shared"
)

// consoleSurface renders study tasks to the terminal. Every control is
// immediately ready, so polling resolves on the first check.
type consoleSurface struct {
	out io.Writer
}

func (s *consoleSurface) WritePrompt(text string) error {
	_, err := fmt.Fprintf(s.out, "→ Prompt: %s\n", text)
	return err
}

func (s *consoleSurface) PromptReady() bool { return true }

func (s *consoleSurface) SubmitPrompt() error {
	_, err := fmt.Fprintln(s.out, "✓ Prompt submitted")
	return err
}

func (s *consoleSurface) WriteAssignment(text string) error {
	_, err := fmt.Fprintf(s.out, "→ Assignment: %s\n", text)
	return err
}

func (s *consoleSurface) AssignmentReady() bool { return true }

func (s *consoleSurface) SubmitAssignment() error {
	_, err := fmt.Fprintln(s.out, "✓ Assignment submitted")
	return err
}

func (s *consoleSurface) ShowMedia(url string, audio bool) error {
	kind := "video"
	if audio {
		kind = "audio"
	}
	_, err := fmt.Fprintf(s.out, "▶ Playing %s: %s\n", kind, url)
	return err
}

// browserOpener opens website tasks in the system browser.
type browserOpener struct{}

func (browserOpener) Open(url string) error {
	return shared.OpenBrowser(url)
}
