package cli

import (
	"io"

	"github.com/nconklindev/sheetpeek/internal/logging"
	"github.com/nconklindev/sheetpeek/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBrowseCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse [dir]",
		Short: "Pick spreadsheets interactively and preview their first rows",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			// stderr belongs to the alt screen while the program runs
			logging.Setup(cfg.Log.Level, cfg.Log.Format, io.Discard)

			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}

			p := tea.NewProgram(ui.InitialModel(dir, cfg.Preview.Rows), tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&flags.rows, "rows", "n", 0, "number of rows to preview")

	return cmd
}
