package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrInteractionDisabled is returned when input is needed but prompting is off.
var ErrInteractionDisabled = errors.New("input required but prompting is disabled")

// Prompter reads answers line by line. Secrets are read without echo when the
// input is a terminal.
type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	fd       int
	terminal bool
}

// New returns a Prompter over plain streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
}

// NewTerminal returns a Prompter that hides secrets typed into in.
func NewTerminal(in *os.File, out io.Writer) *Prompter {
	p := New(in, out)
	p.fd = int(in.Fd())
	p.terminal = term.IsTerminal(p.fd)
	return p
}

func (p *Prompter) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Line prints label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	p.Printf("%s", label)
	line, err := p.in.ReadString('\n')
	switch {
	case err == nil:
	case errors.Is(err, io.EOF) && line != "":
	case errors.Is(err, io.EOF):
		return "", fmt.Errorf("no input: %w", io.ErrUnexpectedEOF)
	default:
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret prints label and reads an answer without echo where possible.
func (p *Prompter) Secret(label string) (string, error) {
	if !p.terminal {
		return p.Line(label)
	}
	p.Printf("%s", label)
	secret, err := term.ReadPassword(p.fd)
	p.Printf("\n")
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
