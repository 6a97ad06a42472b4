package cmd

import (
	"os"
	"strings"

	"github.com/bbcmicro/dfstools/basic"
	"github.com/bbcmicro/dfstools/basic/tables"
	"github.com/bbcmicro/dfstools/dfs"
	"github.com/spf13/cobra"
)

var (
	listDialect string
	listListo   int
	listCR      bool
)

var listCmd = &cobra.Command{
	Use:   "list <filename>",
	Short: "detokenize a BASIC program and print its listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return usageErrorf("list expects exactly one filename")
		}
		dialect, ok := tables.ParseDialect(listDialect)
		if !ok {
			return usageErrorf("unknown dialect %q (choices: %s)", listDialect, strings.Join(tables.Dialects(), ", "))
		}
		if listListo < 0 || listListo > 7 {
			return usageErrorf("--listo must be 0-7")
		}

		_, vol, ctx, err := openVolume()
		if err != nil {
			return err
		}
		entry, err := findEntry(vol, ctx, args[0])
		if err != nil {
			return err
		}

		var body []byte
		err = dfs.VisitBody(vol.DataRegion(), entry, func(data []byte) bool {
			body = append(body, data...)
			return true
		})
		if err != nil {
			return err
		}
		body = body[:entry.Length()]

		framing := basic.FramingLengthLeading
		if listCR {
			framing = basic.FramingCRLeading
		}
		listing, err := basic.Decode(body, dialect, framing, listListo)
		if err != nil {
			return err
		}
		os.Stdout.WriteString(listing.String())
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listDialect, "dialect", "6502", "BASIC token dialect ("+strings.Join(tables.Dialects(), ", ")+")")
	listCmd.Flags().IntVar(&listListo, "listo", basic.DefaultListo, "LISTO bitmask (0-7)")
	listCmd.Flags().BoolVar(&listCR, "cr-leading", false, "use the CR-leading line framing instead of length-leading")
	RootCmd.AddCommand(listCmd)
}
