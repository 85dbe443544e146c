package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"smartstitch/internal/settings"
	"smartstitch/internal/stitcher"
	"smartstitch/internal/tui"
)

var errInterrupted = errors.New("interrupted")

// openStore opens the profile file named by --config.
func openStore() (*settings.Store, error) {
	path := configPath
	if path == "" {
		path = settings.DefaultConfigPath()
	}
	return settings.Open(path, log)
}

// resolveSettings layers the selected profile and the environment under the
// flags already parsed into cfg.
func resolveSettings(cmd *cobra.Command, cfg *stitcher.Settings) (stitcher.Settings, error) {
	store, err := openStore()
	if err != nil {
		return stitcher.Settings{}, err
	}
	name := profileName
	if name == "" {
		name = store.Current()
	}
	p, err := store.Get(name)
	if err != nil {
		return stitcher.Settings{}, err
	}
	if err := settings.Resolve(cfg, p, cmd.Flags()); err != nil {
		return stitcher.Settings{}, err
	}
	log.Debug().Str("profile", name).Str("input", cfg.InputPath).Stringer("width_mode", cfg.WidthMode).
		Int("split_height", cfg.SplitHeight).Msg("settings resolved")
	return *cfg, nil
}

// useTUI reports whether the progress view can be drawn.
func useTUI() bool {
	if plainOutput {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// runOnce executes one engine run while a reporter consumes its updates.
func runOnce(ctx context.Context, s stitcher.Settings, interactive bool) (stitcher.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if interactive && logFile == "" {
		// the engine's console lines would tear the progress view
		stitcher.SetLogger(zerolog.Nop())
		defer stitcher.SetLogger(engineLogger())
	}

	updates := make(chan stitcher.ProgressUpdate, 64)
	var summary stitcher.Summary

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(updates)
		var err error
		summary, err = stitcher.Run(gctx, s, updates)
		return err
	})
	g.Go(func() error {
		if interactive {
			return reportTUI(updates)
		}
		reportPlain(updates)
		return nil
	})

	err := g.Wait()
	return summary, err
}

func reportTUI(updates <-chan stitcher.ProgressUpdate) error {
	program := tea.NewProgram(tui.NewModel("smartstitch", updates))
	final, err := program.Run()
	if err != nil {
		// keep the engine unblocked
		for range updates {
		}
		return fmt.Errorf("progress view: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Interrupted() {
		return errInterrupted
	}
	return nil
}

// reportPlain logs status lines as they come and progress at most once a second.
func reportPlain(updates <-chan stitcher.ProgressUpdate) {
	limiter := rate.NewLimiter(rate.Every(time.Second), 1)
	for u := range updates {
		switch u.Kind {
		case stitcher.UpdateStatus:
			if tui.IsWarning(u.Status) {
				log.Warn().Msg(u.Status)
			} else {
				log.Info().Msg(u.Status)
			}
		case stitcher.UpdateProgress:
			if u.Percent >= 100 || limiter.Allow() {
				log.Info().Float64("percent", u.Percent).Msg("progress")
			}
		}
	}
}

func printSummary(sum stitcher.Summary) {
	fmt.Fprintln(os.Stdout, tui.RenderSummary(tui.RunSummaryRows(sum)))
	if len(sum.Warnings) > 0 {
		fmt.Fprintln(os.Stdout, tui.RenderWarnings(sum.Warnings))
	}
}
