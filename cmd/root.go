// Package cmd implements dfsget, the disc-image inspector's command
// line surface: a cobra root command plus one subcommand per
// read-only operation (cat, info, type, dump, list, free, space,
// sector-map, show-titles, extract-files, extract-unused).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "dfsget",
	Short: "Inspect Acorn DFS disc images",
	Long: `dfsget is a commandline tool for inspecting Acorn DFS (and
Watford DFS / HDFS / Opus DDOS) disc images: cataloging, dumping and
extracting files, and reporting free space - without ever writing
back to the image.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dfstools.yaml)")
	RootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "disc image to open")
	RootCmd.PersistentFlags().IntVar(&flagDrive, "drive", 0, "drive/surface number to mount")
	RootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "current directory character (defaults to $)")
	RootCmd.PersistentFlags().BoolVar(&flagShowConfig, "show-config", false, "print the resolved storage configuration and exit")
}

// initConfig reads a config file and environment variables, the way
// a real filing system would read its drive bindings from
// *CONFIGURE - here used to let ~/.dfstools.yaml bind a default
// --file/--drive so they needn't be repeated on every invocation.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".dfstools")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("DFSTOOLS")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()

	if flagFile == "" {
		flagFile = viper.GetString("file")
	}
	if flagDrive == 0 && viper.IsSet("drive") {
		flagDrive = viper.GetInt("drive")
	}
	if flagDir == "" {
		flagDir = viper.GetString("dir")
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to
// happen once.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCodeFor(err))
	}
}
