package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"smartstitch/internal/settings"
	"smartstitch/internal/stitcher"
	"smartstitch/internal/watch"
)

var (
	watchSettings = stitcher.DefaultSettings()
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [input]",
	Short: "Stitch a folder now and again whenever its images change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := cmd.Flags().Set(settings.FlagInput, args[0]); err != nil {
				return err
			}
		}
		s, err := resolveSettings(cmd, &watchSettings)
		if err != nil {
			return err
		}
		if err := s.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := watch.New(s.InputPath, watch.Options{
			Batch:    s.BatchMode,
			Ignore:   []string{s.OutputPath},
			Debounce: watchDebounce,
			Logger:   log,
		})
		w.Trigger()
		return w.Run(ctx, func(ctx context.Context) error {
			sum, err := runOnce(ctx, s, false)
			if err != nil {
				return err
			}
			printSummary(sum)
			return nil
		})
	},
}

func init() {
	settings.BindFlags(watchCmd.Flags(), &watchSettings)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "quiet period before a change triggers a run")

	rootCmd.AddCommand(watchCmd)
}
