package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"smartstitch/internal/settings"
	"smartstitch/internal/stitcher"
)

var (
	stitchSettings = stitcher.DefaultSettings()
	stitchSaveAs   string
)

var stitchCmd = &cobra.Command{
	Use:   "stitch [flags] [input]",
	Short: "Stitch a folder of pages and slice it into new pages",
	Example: `  smartstitch stitch ./chapter-01
  smartstitch stitch --batch --split-height 8000 --output-type .jpg ./series
  smartstitch stitch -p webtoon --post-process waifu2x --post-process-args "-i {output} -o {output}" ./ch2`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := cmd.Flags().Set(settings.FlagInput, args[0]); err != nil {
				return err
			}
		}
		s, err := resolveSettings(cmd, &stitchSettings)
		if err != nil {
			return err
		}
		if stitchSaveAs != "" {
			if err := saveProfile(stitchSaveAs, s); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sum, err := runOnce(ctx, s, useTUI())
		if errors.Is(err, errInterrupted) {
			log.Warn().Msg("run interrupted, pages written so far are kept")
			return nil
		}
		if err != nil {
			return err
		}
		printSummary(sum)
		return nil
	},
}

func saveProfile(name string, s stitcher.Settings) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	if err := store.Save(name, settings.ProfileFromSettings(s)); err != nil {
		return err
	}
	log.Info().Str("profile", name).Str("path", store.Path()).Msg("profile saved")
	return nil
}

func init() {
	settings.BindFlags(stitchCmd.Flags(), &stitchSettings)
	stitchCmd.Flags().StringVar(&stitchSaveAs, "save-as", "", "also store the resolved settings as this profile")

	rootCmd.AddCommand(stitchCmd)
}
