package cmd

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"smartstitch/internal/settings"
	"smartstitch/internal/stitcher"
)

var profileSettings = stitcher.DefaultSettings()

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage named setting presets",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		current := store.Current()
		for _, name := range store.Names() {
			marker := "  "
			if name == current {
				marker = "* "
			}
			fmt.Fprintln(os.Stdout, marker+name)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a profile (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		name := store.Current()
		if len(args) == 1 {
			name = args[0]
		}
		p, err := store.Get(name)
		if err != nil {
			return err
		}
		b, err := toml.Marshal(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "# %s\n%s", name, b)
		return nil
	},
}

var profileSaveCmd = &cobra.Command{
	Use:   "save [flags] <name>",
	Short: "Store the given settings as a profile and select it",
	Long: "Store the given settings as a profile and select it. Flags are layered over the\n" +
		"profile chosen with --profile (or the current one) and the SMARTSTITCH_* environment.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(cmd, &profileSettings)
		if err != nil {
			return err
		}
		return saveProfile(args[0], s)
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(args[0]); err != nil {
			return err
		}
		log.Info().Str("profile", args[0]).Str("current", store.Current()).Msg("profile deleted")
		return nil
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Select the profile used when --profile is not given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if err := store.SetCurrent(args[0]); err != nil {
			return err
		}
		log.Info().Str("profile", args[0]).Msg("profile selected")
		return nil
	},
}

func init() {
	settings.BindFlags(profileSaveCmd.Flags(), &profileSettings)

	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileSaveCmd, profileDeleteCmd, profileUseCmd)
	rootCmd.AddCommand(profileCmd)
}
