package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bbcmicro/dfstools/dfs"
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type <filename>",
	Short: "print a file's body as text (CR translated to newline)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageErrorf("type expects exactly one filename")
		}
		_, vol, ctx, err := openVolume()
		if err != nil {
			return err
		}
		entry, err := findEntry(vol, ctx, args[0])
		if err != nil {
			return err
		}
		var b strings.Builder
		err = dfs.VisitBody(vol.DataRegion(), entry, func(data []byte) bool {
			for _, c := range data {
				if c == 0x0D {
					b.WriteByte('\n')
				} else {
					b.WriteByte(c)
				}
			}
			return true
		})
		if err != nil {
			return err
		}
		os.Stdout.WriteString(b.String())
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <filename>",
	Short: "hex-dump a file's raw body",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageErrorf("dump expects exactly one filename")
		}
		_, vol, ctx, err := openVolume()
		if err != nil {
			return err
		}
		entry, err := findEntry(vol, ctx, args[0])
		if err != nil {
			return err
		}
		offset := 0
		return dfs.VisitBody(vol.DataRegion(), entry, func(data []byte) bool {
			for i := 0; i < len(data); i += 16 {
				end := i + 16
				if end > len(data) {
					end = len(data)
				}
				row := data[i:end]
				hex := make([]byte, 0, 48)
				ascii := make([]byte, 0, 16)
				for _, c := range row {
					hex = append(hex, []byte(fmt.Sprintf("%02X ", c))...)
					if c >= 0x20 && c < 0x7F {
						ascii = append(ascii, c)
					} else {
						ascii = append(ascii, '.')
					}
				}
				fmt.Printf("%06X  %-48s  %s\n", offset+i, hex, ascii)
			}
			offset += len(data)
			return true
		})
	},
}

func init() {
	RootCmd.AddCommand(typeCmd)
	RootCmd.AddCommand(dumpCmd)
}
