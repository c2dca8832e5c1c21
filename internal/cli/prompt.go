package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var errCancelled = errors.New("cancelled")

func siteplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}

// confirm asks before a destructive command. --yes skips the prompt; without
// a terminal and without --yes the command is refused.
func confirm(app *App, yes bool, title, description string) error {
	if yes {
		return nil
	}
	if !app.interactive() {
		return fmt.Errorf("%s: pass --yes to confirm: %w", title, domain.ErrValidation)
	}
	ok := false
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Delete").
				Negative("Cancel").
				Value(&ok),
		),
	).WithTheme(siteplanHuhTheme()).WithShowHelp(false).Run()
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	return nil
}

// confirmed runs confirm and reports whether to proceed. A declined prompt
// prints a note and is not an error.
func confirmed(w io.Writer, app *App, yes bool, title, description string) (bool, error) {
	err := confirm(app, yes, title, description)
	if errors.Is(err, errCancelled) {
		fmt.Fprintln(w, "Cancelled.")
		return false, nil
	}
	return err == nil, err
}
