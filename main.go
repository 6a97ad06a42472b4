// Command dfsget inspects Acorn DFS (and Watford DFS / HDFS / Opus
// DDOS) disc images: cataloging, dumping and extracting files, and
// reporting free space.
package main

import (
	"github.com/bbcmicro/dfstools/cmd"
)

func main() {
	cmd.Execute()
}
