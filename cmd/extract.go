package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/bbcmicro/dfstools/dfs"
	"github.com/bbcmicro/dfstools/disk/bitstream"
	"github.com/bbcmicro/dfstools/helpers"
	"github.com/spf13/cobra"
)

var (
	extractOutDir string
	extractForce  bool
)

var extractFilesCmd = &cobra.Command{
	Use:   "extract-files",
	Short: "extract every cataloged file, each with a .inf sidecar",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, vol, _, err := openVolume()
		if err != nil {
			return err
		}
		for _, e := range vol.Root.Entries() {
			var data []byte
			err := dfs.VisitBody(vol.DataRegion(), e, func(chunk []byte) bool {
				data = append(data, chunk...)
				return true
			})
			if err != nil {
				fatalf("%c.%s: %v", e.Directory(), e.Name(), err)
			}
			data = data[:e.Length()]

			base := fmt.Sprintf("%c.%s", e.Directory(), e.Name())
			if err := helpers.WriteOutput(filepath.Join(extractOutDir, base), data, extractForce); err != nil {
				fatalf("%s: %v", base, err)
			}
			if err := writeInf(filepath.Join(extractOutDir, base+".inf"), base, e, data); err != nil {
				fatalf("%s.inf: %v", base, err)
			}
		}
		return nil
	},
}

var extractUnusedCmd = &cobra.Command{
	Use:   "extract-unused",
	Short: "extract runs of sectors that belong to no catalog or file",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, _, _, err := openVolume()
		if err != nil {
			return err
		}
		view := fs.SectorMap()
		start := -1
		flush := func(end int) error {
			if start < 0 {
				return nil
			}
			var data []byte
			for i := start; i < end; i++ {
				sec, ok, err := fs.Device.ReadBlock(uint32(i))
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				data = append(data, sec...)
			}
			name := fmt.Sprintf("unused-%05d-%05d.bin", start, end-1)
			return helpers.WriteOutput(filepath.Join(extractOutDir, name), data, extractForce)
		}
		for i, o := range view {
			free := !o.Self && o.Entry == nil
			if free && start < 0 {
				start = i
			}
			if !free && start >= 0 {
				if err := flush(i); err != nil {
					return err
				}
				start = -1
			}
		}
		if start >= 0 {
			if err := flush(len(view)); err != nil {
				return err
			}
		}
		return nil
	},
}

// writeInf writes the .inf sidecar for one extracted file: directory,
// name, load/exec/length in six hex digits, an optional Locked
// marker, and a CRC-16 (initial state 0) over the file's body.
func writeInf(path, base string, e dfs.CatalogEntry, data []byte) error {
	crc := bitstream.NewTapeCRC16()
	crc.UpdateBytes(data)
	lock := ""
	if e.Locked() {
		lock = "Locked "
	}
	line := fmt.Sprintf("%s %06X %06X %06X %sCRC=%04X\n",
		base, e.LoadAddress(), e.ExecAddress(), e.Length(), lock, crc.Get())
	return helpers.WriteOutput(path, []byte(line), extractForce)
}

func init() {
	extractFilesCmd.Flags().StringVar(&extractOutDir, "out", ".", "directory to extract into")
	extractFilesCmd.Flags().BoolVarP(&extractForce, "force", "f", false, "overwrite existing files")
	extractUnusedCmd.Flags().StringVar(&extractOutDir, "out", ".", "directory to extract into")
	extractUnusedCmd.Flags().BoolVarP(&extractForce, "force", "f", false, "overwrite existing files")
	RootCmd.AddCommand(extractFilesCmd)
	RootCmd.AddCommand(extractUnusedCmd)
}
