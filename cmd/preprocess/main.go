// Command preprocess runs the offline job that turns raw OSM/GTFS tables in
// Postgres into a snapshot file the server loads at startup: a root
// cobra.Command with persistent flags, each operation its own subcommand
// file in the same package.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "preprocess",
	Short:        "transitcore offline graph preprocessor",
	Long:         "Builds and inspects the preprocessed routing graph snapshot",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (defaults are used if omitted)")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(inspectCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
