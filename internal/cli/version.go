package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Elpulgo/pullrefresh/internal/version"
)

const checkTimeout = 5 * time.Second

// newChecker builds the update checker. Tests override it.
var newChecker = func(current string) *version.Checker {
	return version.NewChecker(current)
}

func newVersionCommand(build version.Build) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of pullrefresh",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, build.String())
			if !check {
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
			defer cancel()

			info, err := newChecker(build.Version).CheckForUpdate(ctx)
			if err != nil {
				return err
			}
			switch {
			case info.UpdateAvailable:
				fmt.Fprintf(out, "A newer version is available: %s\n%s\n", info.LatestVersion, info.ReleaseURL)
			case info.LatestVersion == "":
				fmt.Fprintln(out, "Development build, not checking for updates.")
			default:
				fmt.Fprintln(out, "You are running the latest version.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}
