package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vango-dev/dropdown/pkg/tui"
)

func tuiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal demo",
		Long: `Run the dropdown in the terminal.

Click the trigger to toggle, click anywhere else or press esc to
close, q to quit. With --hoverable, moving the mouse over the box
opens it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = tui.Run(ctx, tui.Options{
				Open:      cfg.Dropdown.Open,
				Hoverable: cfg.Dropdown.Hoverable,
			})
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().Bool("hoverable", false, "Open and close the dropdown on hover")
	cmd.Flags().Bool("open", false, "Start with the dropdown open")

	return cmd
}
