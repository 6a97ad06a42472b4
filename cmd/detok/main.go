// Command detok detokenizes BBC BASIC programs into their textual
// LIST form, reading a sequence of files (or - for stdin) and
// writing each listing to stdout.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/bbcmicro/dfstools/basic"
	"github.com/bbcmicro/dfstools/basic/tables"
	"github.com/bbcmicro/dfstools/helpers"
	"github.com/bbcmicro/dfstools/types"
)

var cli struct {
	Dialect   string   `kong:"default='6502',help='BASIC token dialect (6502, Z80, ARM, Windows, Mac, PDP11).'"`
	Listo     int      `kong:"default='1',help='LISTO bitmask, 0-7.'"`
	CRLeading bool     `kong:"help='Use the CR-leading line framing instead of length-leading.'"`
	Raw       bool     `kong:"help='Print control codes raw instead of as «ctrl-X» chevrons.'"`
	Files     []string `kong:"arg,optional,help='Tokenized BASIC files to decode (- for stdin).'"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Description("Detokenize BBC BASIC programs into LISTing text."),
	)

	globals := &types.Globals{}
	err := run(globals)
	kctx.FatalIfErrorf(err)
}

func run(globals *types.Globals) error {
	dialect, ok := tables.ParseDialect(cli.Dialect)
	if !ok {
		return fmt.Errorf("unknown dialect %q (choices: %s)", cli.Dialect, strings.Join(tables.Dialects(), ", "))
	}
	if cli.Listo < 0 || cli.Listo > 7 {
		return fmt.Errorf("--listo must be 0-7")
	}
	framing := basic.FramingLengthLeading
	if cli.CRLeading {
		framing = basic.FramingCRLeading
	}

	files := cli.Files
	if len(files) == 0 {
		files = []string{"-"}
	}

	for _, name := range files {
		contents, err := helpers.FileContentsOrStdIn(name)
		if err != nil {
			return err
		}
		listing, err := basic.Decode(contents, dialect, framing, cli.Listo)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		text := listing.String()
		if !cli.Raw {
			text = basic.ChevronControlCodes(text)
		}
		os.Stdout.WriteString(text)
	}
	return nil
}
