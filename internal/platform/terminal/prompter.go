package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	cmdBack = ":back"
	cmdQuit = ":quit"
)

var (
	ErrBack = errors.New("user asked to go back")
	ErrQuit = errors.New("user quit")
)

// Prompter reads one answer per line. EOF and ":quit" end the session with
// ErrQuit; ":back" returns ErrBack.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

func (p *Prompter) Ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("reading answer: %w", err)
		}
		return "", ErrQuit
	}
	answer := strings.TrimSpace(p.in.Text())
	switch strings.ToLower(answer) {
	case cmdBack:
		return "", ErrBack
	case cmdQuit:
		return "", ErrQuit
	}
	return answer, nil
}

// Confirm accepts y/yes (any case) as true.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Ask(label + " [y/N]")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) Say(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}
