package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"todomaster/internal/errors"
)

// Prompter reads answers from the terminal one line at a time
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a prompter over in and out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints label and returns the trimmed answer
func (p *Prompter) Ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.NewTimeoutError("prompt", label)
	}
	fmt.Fprintf(p.out, "%s: ", label)

	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.NewInvalidInputError(label, nil, "no answer given")
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Anything but y or yes declines.
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := p.Ask(ctx, prompt+" [y/N]")
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeInvalidInput) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
