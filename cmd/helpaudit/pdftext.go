package main

import (
	"fmt"
	"os"

	"github.com/helpforge/helpaudit/internal/pdftext"
	"github.com/spf13/cobra"
)

var pdftextFileIDFlag int64

// pdftextCmd represents the pdftext command.
var pdftextCmd = newPdftextCmd()

func newPdftextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdftext [path]",
		Short: "Extract plain text from a PDF attachment",
		Long: `Extract plain text from a PDF, either from a local file path or
fetched from the document store by file id.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			switch {
			case len(args) == 1:
				data, err = os.ReadFile(args[0])
				if err != nil {
					return err
				}
			case pdftextFileIDFlag > 0:
				store := newStoreClient()
				defer store.Close()
				data, err = store.FetchFile(cmd.Context(), pdftextFileIDFlag)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either a path argument or --file-id is required")
			}

			text, err := pdftext.Extract(data)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
	cmd.Flags().Int64Var(&pdftextFileIDFlag, "file-id", 0, "fetch the PDF from the document store by file id")

	return cmd
}

func init() {
	rootCmd.AddCommand(pdftextCmd)
}
