package main

import (
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var collectionsQueryFlag string

// collectionsCmd represents the collections command.
var collectionsCmd = newCollectionsCmd()

func newCollectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "List collections available in the document store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := newStoreClient()
			defer store.Close()

			cols, err := store.ListCollections(cmd.Context(), collectionsQueryFlag)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Name"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			for _, c := range cols {
				table.Append([]string{strconv.FormatInt(c.ID, 10), c.Name})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&collectionsQueryFlag, "query", "q", "", "filter collections by name")

	return cmd
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}
