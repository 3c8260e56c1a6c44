package commands

import (
	"context"
	"fmt"
	"os"

	"scobro-sync/internal/export"
	"scobro-sync/internal/store"

	"github.com/spf13/cobra"
)

var exportFormat string

// exportCmd writes the whole logbook to stdout in the chosen format.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the logbook as CSV or Markdown to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening logbook database: %w", err)
		}
		defer st.Close()

		entries, err := st.GetAllEntriesWithItems(context.Background())
		if err != nil {
			return err
		}

		switch exportFormat {
		case "csv":
			fmt.Fprint(os.Stdout, export.CSV(entries))
		case "markdown", "md":
			fmt.Fprint(os.Stdout, export.Markdown(entries))
		default:
			return fmt.Errorf("unknown export format %q (want csv or markdown)", exportFormat)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "export format: csv or markdown")
	rootCmd.AddCommand(exportCmd)
}
