package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/impexls/internal/config"
)

var (
	initForce         bool
	initDelimiter     string
	initLookahead     int
	initCommentMarker []string
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config [PATH]",
	Short: "Write a commented default config file",
	Long: `Write a default config file to PATH, or to ./` + config.LocalConfigPath + ` when
PATH is omitted. Flags override single settings of the written file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInitConfig,
}

func init() {
	rootCmd.AddCommand(initConfigCmd)

	f := initConfigCmd.Flags()
	f.BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
	f.StringVar(&initDelimiter, "delimiter", "", "field delimiter")
	f.IntVar(&initLookahead, "lookahead", 0, "lines scanned below a header")
	f.StringSliceVar(&initCommentMarker, "comment-marker", nil, "comment line prefix (repeatable)")
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	path := config.LocalConfigPath
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("delimiter") || flags.Changed("comment-marker") {
		idx := config.Defaults().Index
		if flags.Changed("delimiter") {
			idx.Delimiter = initDelimiter
		}
		if flags.Changed("comment-marker") {
			idx.CommentMarkers = initCommentMarker
		}
		if err := config.ValidateIndex(idx); err != nil {
			return err
		}
		if err := config.SaveIndex(path, idx); err != nil {
			return err
		}
	}
	if flags.Changed("lookahead") {
		h := config.HighlightConfig{Lookahead: initLookahead}
		if err := config.ValidateHighlight(h); err != nil {
			return err
		}
		if err := config.SaveHighlight(path, h); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
