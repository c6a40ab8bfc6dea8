package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/impexls/internal/flags"
	"github.com/zjrosen/impexls/internal/impex"
	"github.com/zjrosen/impexls/internal/mode/playground"
)

var playgroundNoWatch bool

var playgroundCmd = &cobra.Command{
	Use:   "playground FILE",
	Short: "Explore field highlights of a file interactively",
	Long: `Open FILE in a terminal view. Move the cursor with hjkl or the arrow keys,
jump between fields with w/b or tab, and watch the matching fields of the
record light up the way an editor would show them. The view reloads when the
file changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)

	playgroundCmd.Flags().BoolVar(&playgroundNoWatch, "no-watch", false, "do not reload the file when it changes")
}

func runPlayground(cmd *cobra.Command, args []string) error {
	// Query the background color before Bubble Tea owns the input loop, or
	// the terminal's reply leaks into it.
	_ = lipgloss.HasDarkBackground()

	reg := flags.NewWithDefaults(cfg.Flags)
	svc := impex.NewService(cfg.IndexOptions(reg.Enabled(flags.FlagCommentFilter)))
	defer svc.Close()

	model, err := playground.New(cmd.Context(), playground.Config{
		Path:    args[0],
		Service: svc,
		Watch:   !playgroundNoWatch,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
