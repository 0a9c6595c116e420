package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nconklindev/sheetpeek/internal/config"
	"github.com/nconklindev/sheetpeek/internal/logging"
	"github.com/nconklindev/sheetpeek/internal/preview"
	"github.com/nconklindev/sheetpeek/internal/types"

	"github.com/spf13/cobra"
)

// BuildInfo is stamped in at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootFlags struct {
	configPath string
	dir        string
	rows       int
	logLevel   string
}

// NewRootCmd builds the sheetpeek command tree.
func NewRootCmd(info BuildInfo) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "sheetpeek [files...]",
		Short: "Print the first rows of spreadsheets to find their header rows",
		Long: `sheetpeek prints the first rows of each configured spreadsheet
(.xlsx, .xlsm, .xls, .csv) without treating any row as a header, so the
real header row can be spotted by eye.

Files given as arguments replace the configured list. Files that cannot be
read get an error line; the run always continues.`,
		Args:          cobra.ArbitraryArgs,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, flags, args)
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("sheetpeek %s\ncommit: %s\nbuilt: %s\n", info.Version, info.Commit, info.Date))

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "INI file with preview and log settings")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "diagnostics level: debug, info, warn, error")
	cmd.Flags().StringVarP(&flags.dir, "dir", "d", "", "directory holding the files")
	cmd.Flags().IntVarP(&flags.rows, "rows", "n", 0, "number of rows to preview")

	cmd.AddCommand(newBrowseCmd(flags))

	return cmd
}

// loadConfig resolves defaults, the config file and flag overrides.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if f := cmd.Flags().Lookup("dir"); f != nil && f.Changed {
		cfg.Preview.Directory = flags.dir
	}
	if f := cmd.Flags().Lookup("rows"); f != nil && f.Changed {
		cfg.Preview.Rows = flags.rows
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runPreview(cmd *cobra.Command, flags *rootFlags, args []string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	files := cfg.Sources()
	if len(args) > 0 {
		files = argSources(args, flags.dir)
	}

	p := preview.New(cmd.OutOrStdout(),
		preview.WithLimit(cfg.Preview.Rows),
		preview.WithLogger(logger),
	)
	summary, err := p.Run(files)
	if err != nil {
		return fmt.Errorf("write preview: %w", err)
	}

	logger.Info("done", "files", len(files), "loaded", summary.Loaded, "failed", summary.Failed)
	return nil
}

// argSources turns command-line paths into sources. Relative paths are taken
// from dir when one was given on the command line.
func argSources(args []string, dir string) types.FileList {
	files := make(types.FileList, 0, len(args))
	for _, arg := range args {
		if filepath.IsAbs(arg) || dir == "" {
			files = append(files, types.Source{Dir: filepath.Dir(arg), Name: filepath.Base(arg)})
			continue
		}
		files = append(files, types.Source{Dir: dir, Name: arg})
	}
	return files
}

// Execute runs the command tree and exits non-zero on invocation errors.
func Execute(info BuildInfo) {
	if err := NewRootCmd(info).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
