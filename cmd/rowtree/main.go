// SPDX-License-Identifier: MIT

// Command rowtree rebuilds a tree from a file of flat records.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gitlab.com/fisherprime/rowtree"
)

var (
	logger = logrus.New()

	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "rowtree",
	Short: "Rebuild trees from flat records",
	Long: `rowtree reads records carrying an identifier, a parent identifier & a level from a
JSON, JSON lines, YAML or CSV file and rebuilds the hierarchy they describe.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			logger.SetLevel(logrus.DebugLevel)
		}
		rowtree.SetLogger(logger)
	},
}

func init() {
	logger.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
