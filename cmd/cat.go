package cmd

import (
	"fmt"
	"text/tabwriter"

	"os"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Use:     "cat",
	Aliases: []string{"catalog"},
	Short:   "print the catalog of the mounted volume",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, vol, ctx, err := openVolume()
		if err != nil {
			return err
		}
		title := vol.Root.Title()
		if title == "" {
			title = "(untitled)"
		}
		fmt.Printf("%s (%d/%d)  boot=%s  dir=%c\n",
			title, len(vol.Root.Entries()), vol.Root.MaxFileCount(), vol.Root.Boot(), ctx.CurrentDirectory)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, e := range vol.Root.Entries() {
			lock := ""
			if e.Locked() {
				lock = "L"
			}
			fmt.Fprintf(w, "%c.%s\t%s\n", e.Directory(), e.Name(), lock)
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(catCmd)
}
