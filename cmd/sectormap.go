package cmd

import (
	"fmt"

	"github.com/bbcmicro/dfstools/disk"
	"github.com/spf13/cobra"
)

var sectorMapCmd = &cobra.Command{
	Use:   "sector-map",
	Short: "print which file (if any) owns each sector of the mounted surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, _, _, err := openVolume()
		if err != nil {
			return err
		}
		view := fs.SectorMap()
		for i, o := range view {
			ts := disk.LBAToTrackSector(i, fs.Geom.SectorsPerTrack)
			label := "free"
			switch {
			case o.Self:
				label = "catalog"
			case o.Entry != nil:
				label = fmt.Sprintf("%c.%s", o.Entry.Directory(), o.Entry.Name())
			}
			fmt.Printf("%4d  T%02d S%02d  %s\n", i, ts.Track, ts.Sector, label)
		}
		return nil
	},
}

var showTitlesCmd = &cobra.Command{
	Use:   "show-titles",
	Short: "print the disc (and, for Opus DDOS, each sub-volume) title",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, vol, _, err := openVolume()
		if err != nil {
			return err
		}
		for _, letter := range fs.Subvolumes() {
			v, err := fs.Subvolume(letter)
			if err != nil {
				return err
			}
			fmt.Printf("%c: %s\n", letter, v.Root.Title())
		}
		if len(fs.Subvolumes()) == 0 {
			fmt.Println(vol.Root.Title())
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(sectorMapCmd)
	RootCmd.AddCommand(showTitlesCmd)
}
