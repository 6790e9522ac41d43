package browse

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/cobalt/internal/errors"
)

// Run shows the browser until the user quits or ctx is canceled. It returns
// the final model so callers can report what was fetched.
func Run(ctx context.Context, m Model) (Model, error) {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	if fm, ok := final.(Model); ok {
		m = fm
	}
	return m, err
}
