package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads credentials from the operator.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal file descriptor used for masked input, or -1.
	fd int
}

// NewPrompter prompts on out and reads from in. Masked input is used when
// in is a terminal.
func NewPrompter(in *os.File, reader *bufio.Reader, out io.Writer) *Prompter {
	fd := -1
	if in != nil && term.IsTerminal(int(in.Fd())) {
		fd = int(in.Fd())
	}
	return &Prompter{in: reader, out: out, fd: fd}
}

// Ask reads a plain line.
func (p *Prompter) Ask(label string) (string, error) {
	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskSecret reads a line without echoing it when attached to a terminal.
func (p *Prompter) AskSecret(label string) (string, error) {
	if p.fd < 0 {
		return p.Ask(label)
	}

	_, _ = fmt.Fprintf(p.out, "%s: ", label)
	secret, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(string(secret)), nil
}
