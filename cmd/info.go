package cmd

import (
	"fmt"

	"github.com/bbcmicro/dfstools/dfs"
	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <filename>",
	Short: "print load/exec/length/sector details for one file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageErrorf("info expects exactly one filename")
		}
		_, vol, ctx, err := openVolume()
		if err != nil {
			return err
		}
		entry, err := findEntry(vol, ctx, args[0])
		if err != nil {
			return err
		}
		lock := ""
		if entry.Locked() {
			lock = " (locked)"
		}
		fmt.Printf("%c.%s%s\n", entry.Directory(), entry.Name(), lock)
		fmt.Printf("  load:   %06X\n", entry.LoadAddress())
		fmt.Printf("  exec:   %06X\n", entry.ExecAddress())
		fmt.Printf("  length: %06X (%d bytes)\n", entry.Length(), entry.Length())
		fmt.Printf("  sectors: %d-%d (%d sectors)\n", entry.StartSector(), entry.LastSector(), entry.SectorCount())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

// findEntry resolves a (possibly partial) file specification against
// ctx and looks it up in vol's root catalog.
func findEntry(vol *dfs.Volume, ctx dfs.Context, fsp string) (dfs.CatalogEntry, error) {
	parsed, err := dfs.ParseFileName(ctx, fsp)
	if err != nil {
		return dfs.CatalogEntry{}, usageError{err}
	}
	entry, ok := vol.Root.Find(parsed.Dir, parsed.Name)
	if !ok {
		return dfs.CatalogEntry{}, dfserrors.BadFileSystemf("file %c.%s not found", parsed.Dir, parsed.Name)
	}
	return entry, nil
}
