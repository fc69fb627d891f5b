package tui

import (
	"context"
	stderrors "errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"todomaster/internal/api"
)

// Options configures Run
type Options struct {
	In        io.Reader
	Out       io.Writer
	AltScreen bool
}

// Run starts the browser and blocks until the user quits or ctx is done
func Run(ctx context.Context, businessAPI api.BusinessAPI, opts Options) error {
	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if opts.In != nil {
		programOpts = append(programOpts, tea.WithInput(opts.In))
	}
	if opts.Out != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Out))
	}

	program := tea.NewProgram(NewModel(ctx, businessAPI), programOpts...)
	_, err := program.Run()
	if stderrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
