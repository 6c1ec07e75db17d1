package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/walteh/cardimport/cmd/cardimport/opts"
	"github.com/walteh/cardimport/pkg/layout"
	"gitlab.com/tozd/go/errors"
)

const dateLayout = "2006-01-02"

// NewPathsCmd creates the paths command
func NewPathsCmd(o *opts.RootOpts) *cobra.Command {
	var (
		mode string
		date string
	)

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the two day-folder paths",
		Long: `Paths prints the photo folder and the VR folder for a day, one per line,
so they can be pasted or piped. Nothing is created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := layout.ParseMode(mode)
			if err != nil {
				return err
			}

			now := time.Now()
			if date != "" {
				now, err = time.ParseInLocation(dateLayout, date, time.Local)
				if err != nil {
					return errors.Errorf("parsing --date: %w", err)
				}
			}

			dirs := layout.Resolve(o.Config.Root, m, now, o.Config.LayoutNaming())
			for _, d := range dirs.Slice() {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "create", "folder mode: create or import")
	cmd.Flags().StringVar(&date, "date", "", "day to print, as YYYY-MM-DD (default: today)")

	return cmd
}
