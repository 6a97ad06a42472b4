package cmd

import (
	"fmt"
	"os"

	"github.com/bbcmicro/dfstools/dfs"
	"github.com/bbcmicro/dfstools/dfserrors"
	"github.com/bbcmicro/dfstools/disk/geometry"
	"github.com/bbcmicro/dfstools/disk/image"
	"github.com/bbcmicro/dfstools/types"
)

var (
	flagFile       string
	flagDrive      int
	flagDir        string
	flagShowConfig bool
)

// usageError marks an error as a command-line usage mistake (bad
// argument count, unparsable flag) rather than an operational
// failure, so Execute can choose exit code 2 instead of 1.
type usageError struct{ err error }

func (u usageError) Error() string { return u.err.Error() }
func (u usageError) Unwrap() error { return u.err }

func usageErrorf(format string, a ...interface{}) error {
	return usageError{fmt.Errorf(format, a...)}
}

// exitCodeFor maps an error from a command's Run to the process exit
// code: 2 for a usage mistake, 3 for no media/disc where one was
// asked for, 4 for a medium that was read but didn't check out
// (unrecognized, ambiguous or structurally bad), 1 for any other
// (operational, e.g. I/O) failure.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := err.(usageError); ok {
		return 2
	}
	if dfserrors.IsMediaNotPresent(err) {
		return 3
	}
	if dfserrors.IsUnrecognized(err) || dfserrors.IsFailedToGuessFormat(err) ||
		dfserrors.IsBadFileSystem(err) || dfserrors.IsOpusUnsupported(err) {
		return 4
	}
	return 1
}

// currentDirectory returns the --dir flag, defaulting to "$".
func currentDirectory() byte {
	if flagDir == "" {
		return '$'
	}
	return flagDir[0]
}

// openVolume opens --file, probes its geometry and format, mounts
// --drive's surface, and resolves the (possibly Opus DDOS lettered)
// subvolume it names. It is the entry point every subcommand uses;
// with --show-config it prints the resolved drive and geometry and
// exits instead of returning.
func openVolume() (*dfs.FileSystem, *dfs.Volume, dfs.Context, error) {
	if flagFile == "" {
		return nil, nil, dfs.Context{}, usageErrorf("--file is required")
	}

	sel, err := dfs.ParseVolumeSelector(fmt.Sprintf("%d", flagDrive))
	if err != nil {
		return nil, nil, dfs.Context{}, usageError{err}
	}

	c, err := image.Open(flagFile)
	if err != nil {
		return nil, nil, dfs.Context{}, err
	}

	result, err := geometry.Probe(c, flagFile)
	if err != nil {
		_ = c.Close()
		return nil, nil, dfs.Context{}, err
	}

	dev, err := c.Surface(sel.Surface, result.Geom)
	if err != nil {
		_ = c.Close()
		return nil, nil, dfs.Context{}, err
	}

	sc := dfs.NewStorageConfiguration()
	format := result.Format
	sc.ConnectDrives([]*dfs.DriveConfig{{
		Format: &format,
		Geom:   result.Geom,
		Device: dev,
	}}, types.AllocationFirst)

	if flagShowConfig {
		fmt.Printf("drive %d: %s, %s\n", sel.Surface, result.Format, describeGeometry(result.Geom))
		_ = c.Close()
		os.Exit(0)
	}

	fs, vol, err := sc.Mount(dfs.VolumeSelector{Surface: 0, Subvolume: sel.Subvolume})
	if err != nil {
		return nil, nil, dfs.Context{}, err
	}

	ctx := dfs.Context{
		CurrentVolume:    dfs.VolumeSelector{Surface: 0, Subvolume: sel.Subvolume},
		CurrentDirectory: currentDirectory(),
	}
	return fs, vol, ctx, nil
}

func describeGeometry(g types.Geometry) string {
	sides := "single-sided"
	if g.Heads == 2 {
		sides = "double-sided"
	}
	layout := "sequential"
	if g.Interleaved {
		layout = "interleaved"
	}
	return fmt.Sprintf("%d cylinders, %s, %d spt, %s, %s", g.Cylinders, sides, g.SectorsPerTrack, g.Encoding, layout)
}

// fatalf prints an error and exits with status 1. The extract
// commands use it to stop at the first file they fail to read or
// write, rather than returning the error through cobra's RunE.
func fatalf(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
