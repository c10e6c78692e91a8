// Package prompt abstracts interactive terminal input so the selection
// engine and archival processor can run against scripted answers in
// tests.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user questions one line at a time.
type Prompter interface {
	// Input shows label and returns the trimmed line the user entered.
	Input(label string) (string, error)

	// Confirm asks a yes/no question; y/yes affirms, anything else
	// (including just Enter) declines.
	Confirm(label string) (bool, error)
}

// Terminal is the stdin/stdout Prompter.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal wraps the given reader and writer.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Input(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (t *Terminal) Confirm(label string) (bool, error) {
	answer, err := t.Input(label)
	if err != nil {
		return false, err
	}
	return isAffirmative(answer), nil
}

// Script is a canned-answer Prompter for tests.
type Script struct {
	answers []string
	next    int
}

// NewScript returns a Prompter that replays answers in order.
func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

func (s *Script) Input(label string) (string, error) {
	if s.next >= len(s.answers) {
		return "", fmt.Errorf("script exhausted after %d answers (asked %q)", len(s.answers), label)
	}
	answer := s.answers[s.next]
	s.next++
	return answer, nil
}

func (s *Script) Confirm(label string) (bool, error) {
	answer, err := s.Input(label)
	if err != nil {
		return false, err
	}
	return isAffirmative(answer), nil
}

// Remaining reports how many scripted answers are unused.
func (s *Script) Remaining() int {
	return len(s.answers) - s.next
}

func isAffirmative(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}
