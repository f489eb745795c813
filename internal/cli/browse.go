package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/example/shopcart/internal/tui"
)

func newBrowseCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive storefront: browse, search and manage the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			model := tui.New(tui.Options{
				Client:   opts.client,
				Session:  opts.currentSession(),
				Debounce: opts.cfg.DebounceWindow(),
				Logger:   opts.logger,
			})

			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running browse view: %w", err)
			}
			return nil
		},
	}
}
