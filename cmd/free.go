package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var freeCmd = &cobra.Command{
	Use:   "free",
	Short: "report file count and free sector count",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, vol, _, err := openVolume()
		if err != nil {
			return err
		}
		entries := vol.Root.Entries()
		used, free := vol.FreeSpace()
		plural := "s"
		if len(entries) == 1 {
			plural = ""
		}
		fmt.Printf("%d file%s, %d sectors used, %d sectors free\n", len(entries), plural, used, free)
		return nil
	},
}

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "report sector usage as a percentage",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, vol, _, err := openVolume()
		if err != nil {
			return err
		}
		view := fs.SectorMap()
		total := vol.TotalSectors
		if total > len(view) {
			total = len(view)
		}
		free := 0
		for i := 0; i < total; i++ {
			if !view[i].Self && view[i].Entry == nil {
				free++
			}
		}
		used := total - free
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(used) / float64(total)
		}
		fmt.Printf("%d/%d sectors used (%.1f%%)\n", used, total, pct)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(freeCmd)
	RootCmd.AddCommand(spaceCmd)
}
