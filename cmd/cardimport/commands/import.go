package commands

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/cardimport/cmd/cardimport/opts"
	"github.com/walteh/cardimport/pkg/importer"
	"github.com/walteh/cardimport/pkg/log"
	"github.com/walteh/cardimport/pkg/transfer"
	"gitlab.com/tozd/go/errors"
)

// DefaultLockPath is where the run lock lives unless --lock-file says otherwise
func DefaultLockPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Errorf("locating cache directory: %w", err)
	}
	return filepath.Join(dir, "cardimport", "import.lock"), nil
}

// NewImportCmd creates the import command
func NewImportCmd(o *opts.RootOpts) *cobra.Command {
	var (
		root       string
		photoSrc   string
		vrSrc      string
		lockFile   string
		noLock     bool
		showFiles  bool
		showErrors bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import both cards into today's folders",
		Long: `Import reads the photo card and the VR card at the same time.
It will:
1. Work out today's import folders under the work root
2. Copy every photo, keeping the originals on the card
3. Move every VR file, copying then deleting when the card is another device
4. Rename incoming files that would overwrite an existing one
5. Print a summary once both cards are done`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "import").Logger().WithContext(ctx)

			cfg := o.Config
			if root != "" {
				cfg.Root = filepath.Clean(root)
			}
			if photoSrc != "" {
				cfg.Sources.Photo = filepath.Clean(photoSrc)
			}
			if vrSrc != "" {
				cfg.Sources.VR = filepath.Clean(vrSrc)
			}

			lockPath := ""
			if cfg.LockEnabled() && !noLock {
				lockPath = lockFile
				if lockPath == "" {
					p, err := DefaultLockPath()
					if err != nil {
						return err
					}
					lockPath = p
				}
			}

			console := log.New(cmd.OutOrStdout(), *zerolog.Ctx(ctx), log.WithFiles(showFiles))

			labels := map[transfer.Kind]string{
				transfer.KindPhoto: importer.DefaultPhotoLabel,
				transfer.KindVR:    importer.DefaultVRLabel,
			}

			coord := importer.New(importer.Options{
				BaseRoot:                cfg.Root,
				PhotoSource:             cfg.Sources.Photo,
				VRSource:                cfg.Sources.VR,
				Naming:                  cfg.LayoutNaming(),
				PhotoLabel:              labels[transfer.KindPhoto],
				VRLabel:                 labels[transfer.KindVR],
				IgnorePatterns:          cfg.IgnorePatterns(),
				ConflictAttempts:        cfg.ConflictAttempts(),
				SuppressErrorsInSummary: cfg.SuppressErrors() && !showErrors,
				LockPath:                lockPath,
				Callbacks: func(kind transfer.Kind) transfer.Callbacks {
					return console.Callbacks(kind, labels[kind])
				},
			})

			dirs := coord.Dirs()
			console.Header("importing cards")
			console.Infof("%s: %s → %s", labels[transfer.KindPhoto], cfg.Sources.Photo, dirs.Photo)
			console.Infof("%s: %s → %s", labels[transfer.KindVR], cfg.Sources.VR, dirs.VR)

			sum, err := coord.RunImport(ctx)
			if err != nil {
				if errors.Is(err, importer.ErrImportInProgress) {
					o.UserLogger.LogLockOperation(lockPath, err)
				}
				return errors.Errorf("running import: %w", err)
			}

			console.LogNewline()
			for _, res := range sum.Results() {
				console.ReportResult(res)
			}
			o.UserLogger.LogSummary(sum)

			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "override the work root")
	cmd.Flags().StringVar(&photoSrc, "photo-src", "", "override the photo card folder")
	cmd.Flags().StringVar(&vrSrc, "vr-src", "", "override the VR card folder")
	cmd.Flags().StringVar(&lockFile, "lock-file", "", "run lock path (default: user cache dir)")
	cmd.Flags().BoolVar(&noLock, "no-lock", false, "do not take the run lock")
	cmd.Flags().BoolVar(&showFiles, "files", false, "print a line for every file")
	cmd.Flags().BoolVar(&showErrors, "show-errors", false, "list per-file errors in the summary")

	return cmd
}
